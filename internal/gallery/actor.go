package gallery

// User is the profile embedded in an Actor, as returned by the identity
// service.
type User struct {
	ID        string   `json:"id"`
	ClientID  string   `json:"client_id"`
	Username  string   `json:"username"`
	Status    string   `json:"status"`
	Roles     []Role   `json:"roles"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// Actor is the authenticated identity resolved once per request. It is
// derived fresh from the bearer credential on every request and never
// persisted server-side.
type Actor struct {
	ID          string       `json:"id"`
	ClientID    string       `json:"client_id"`
	Scope       string       `json:"scope"`
	User        User         `json:"user"`
	Roles       []Role       `json:"roles"`
	Permissions []Permission `json:"permissions"`
}

// HasPermissions reports whether the actor holds every permission in the
// required set.
func (a *Actor) HasPermissions(required []Permission) bool {
	for _, req := range required {
		found := false
		for _, p := range a.Permissions {
			if p == req {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HasAnyPermission reports whether the actor holds at least one permission
// from the given set.
func (a *Actor) HasAnyPermission(any []Permission) bool {
	for _, candidate := range any {
		for _, p := range a.Permissions {
			if p == candidate {
				return true
			}
		}
	}
	return false
}

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// Permission is an atomic capability from the fixed enumerated set used by
// the policy engine. The wire format matches the identity service.
type Permission string

const (
	PermBucketsList Permission = "buckets.list"
	PermBucketsView Permission = "buckets.view"

	PermDirsCreate Permission = "dirs.create"
	PermDirsEdit   Permission = "dirs.edit"
	PermDirsDelete Permission = "dirs.delete"
	PermDirsList   Permission = "dirs.list"
	PermDirsView   Permission = "dirs.view"
	PermDirsManage Permission = "dirs.manage"

	PermFilesCreate Permission = "files.create"
	PermFilesEdit   Permission = "files.edit"
	PermFilesDelete Permission = "files.delete"
	PermFilesList   Permission = "files.list"
	PermFilesView   Permission = "files.view"
	PermFilesManage Permission = "files.manage"
)
