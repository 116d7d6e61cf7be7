package rbac

// Resource represents a type of resource in the system
type Resource string

// Action represents an operation on a resource
type Action string

const (
	ResourceAlbum Resource = "album"
	ResourcePhoto Resource = "photo"
)

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
