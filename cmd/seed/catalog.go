package main

import "github.com/mtsdigital/storefront/internal/catalog"

var seedCategories = []catalog.CategoryInput{
	{Name: "OTT Platforms", Slug: "ott", Description: "Streaming subscriptions for movies, series and sport", Icon: "fas fa-play-circle"},
	{Name: "VPN Services", Slug: "vpn", Description: "Private, no-log VPN plans", Icon: "fas fa-shield-alt"},
	{Name: "Cloud Storage", Slug: "cloud", Description: "Online storage and backup plans", Icon: "fas fa-cloud"},
	{Name: "Editing Software", Slug: "editing-software", Description: "Professional video and photo editing software", Icon: "fas fa-edit"},
	{Name: "AI Tools", Slug: "ai-tools", Description: "Artificial intelligence and automation tools", Icon: "fas fa-robot"},
	{Name: "Productivity Tools", Slug: "productivity", Description: "Productivity and workflow optimization tools", Icon: "fas fa-tasks"},
}

func strPtr(v string) *string { return &v }

var seedProducts = []catalog.ProductInput{
	{
		Name: "Netflix", FullProductName: "Netflix Premium - 1 Month", Subcategory: strPtr("Netflix"),
		Duration: "1 Month", Description: "Premium Netflix streaming with 4K Ultra HD quality",
		Features: []string{"4K Ultra HD", "4 screens", "Downloads"}, Price: 199, OriginalPrice: 649,
		Category: "ott", Icon: "fas fa-play-circle", ActivationTime: "Within 24 Hours", Warranty: "30 Days",
		Popular: true, Trending: true,
	},
	{
		Name: "Amazon Prime Video", FullProductName: "Prime Video - 6 Months", Subcategory: strPtr("Prime Video"),
		Duration: "6 Months", Description: "Prime Video streaming in Full HD",
		Features: []string{"Full HD", "Originals", "Downloads"}, Price: 399, OriginalPrice: 899,
		Category: "ott", Icon: "fas fa-play-circle", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
		Popular: true,
	},
	{
		Name: "Disney+ Hotstar", FullProductName: "Disney+ Hotstar Super - 1 Year", Subcategory: strPtr("Hotstar"),
		Duration: "1 Year", Description: "Live sport, movies and series on two devices",
		Features: []string{"Live sport", "2 devices", "Full HD"}, Price: 499, OriginalPrice: 899,
		Category: "ott", Icon: "fas fa-play-circle", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
		Trending: true,
	},
	{
		Name: "NordVPN", FullProductName: "NordVPN Standard - 1 Year", Subcategory: strPtr("NordVPN"),
		Duration: "1 Year", Description: "Secure VPN service with threat protection",
		Features: []string{"No logs", "6 devices", "Threat protection"}, Price: 899, OriginalPrice: 4499,
		Category: "vpn", Icon: "fas fa-shield-alt", ActivationTime: "Instant", Warranty: "Full Validity",
		Popular: true,
	},
	{
		Name: "ExpressVPN", FullProductName: "ExpressVPN - 1 Month", Subcategory: strPtr("ExpressVPN"),
		Duration: "1 Month", Description: "High-speed VPN across 100+ countries",
		Features: []string{"Secure connection", "No logs", "5 devices"}, Price: 299, OriginalPrice: 1099,
		Category: "vpn", Icon: "fas fa-shield-alt", ActivationTime: "Instant", Warranty: "30 Days",
	},
	{
		Name: "Google One", FullProductName: "Google One 2TB - 1 Year", Subcategory: strPtr("Google"),
		Duration: "1 Year", Description: "2TB shared storage across Drive, Gmail and Photos",
		Features: []string{"2TB storage", "Family sharing", "VPN by Google One"}, Price: 1299, OriginalPrice: 6500,
		Category: "cloud", Icon: "fas fa-cloud", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
		Trending: true,
	},
	{
		Name: "Adobe Creative Cloud", FullProductName: "Adobe Creative Cloud All Apps - 1 Year", Subcategory: strPtr("Adobe"),
		Duration: "1 Year", Description: "Photoshop, Premiere Pro, Illustrator and 20+ apps",
		Features: []string{"All apps", "100GB cloud", "Fonts"}, Price: 2999, OriginalPrice: 54000,
		Category: "editing-software", Icon: "fas fa-edit", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
		Popular: true,
	},
	{
		Name: "ChatGPT Plus", FullProductName: "ChatGPT Plus - 1 Month", Subcategory: strPtr("OpenAI"),
		Duration: "1 Month", Description: "Priority access to the latest GPT models",
		Features: []string{"Latest models", "Image generation", "Priority access"}, Price: 1499, OriginalPrice: 1999,
		Category: "ai-tools", Icon: "fas fa-robot", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
		Trending: true,
	},
	{
		Name: "Microsoft 365", FullProductName: "Microsoft 365 Family - 1 Year", Subcategory: strPtr("Microsoft"),
		Duration: "1 Year", Description: "Word, Excel, PowerPoint and 1TB OneDrive for six people",
		Features: []string{"6 users", "1TB each", "Desktop apps"}, Price: 1999, OriginalPrice: 6199,
		Category: "productivity", Icon: "fas fa-tasks", ActivationTime: "Within 24 Hours", Warranty: "Full Validity",
	},
}
