package domain

// Operation names an access-controlled action on a resource. The
// authorization policy keys its decision table on these values; an
// operation not present in the table is denied.
type Operation string

const (
	OpUserCreate      Operation = "user:create"
	OpUserUpdate      Operation = "user:update"
	OpUserDelete      Operation = "user:delete"
	OpUserList        Operation = "user:list"
	OpUserSearch      Operation = "user:search"
	OpAuthoritiesRead Operation = "authorities:read"

	OpCustomerCreate Operation = "customer:create"
	OpCustomerUpdate Operation = "customer:update"
	OpCustomerDelete Operation = "customer:delete"
	OpCustomerList   Operation = "customer:list"
	OpCustomerSearch Operation = "customer:search"
)
