package models

// All lists every persisted model, used by sqlite auto-migration and tests.
func All() []any {
	return []any{
		&Product{},
		&Category{},
		&Order{},
		&PaymentCallback{},
		&Review{},
		&Testimonial{},
		&BlogPost{},
		&Admin{},
		&AdminSession{},
		&AdminLog{},
		&AnalyticsEvent{},
	}
}
