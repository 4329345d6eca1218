package enums

// AdminAction labels entries in the admin audit log.
type AdminAction string

const (
	AdminActionLogin           AdminAction = "login"
	AdminActionLogout          AdminAction = "logout"
	AdminActionProductCreate   AdminAction = "product.create"
	AdminActionProductUpdate   AdminAction = "product.update"
	AdminActionProductDelete   AdminAction = "product.delete"
	AdminActionCategoryCreate  AdminAction = "category.create"
	AdminActionCategoryUpdate  AdminAction = "category.update"
	AdminActionCategoryDelete  AdminAction = "category.delete"
	AdminActionOrderStatus     AdminAction = "order.status"
	AdminActionReviewModerate  AdminAction = "review.moderate"
	AdminActionTestimonialAdd  AdminAction = "testimonial.create"
	AdminActionBlogPostPublish AdminAction = "blog.create"
)

// String implements fmt.Stringer.
func (a AdminAction) String() string {
	return string(a)
}
