package rbac

import (
	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

// rule is one row of the static policy table: the permissions an actor
// needs for a (resource, action) pair and the denial message shown when it
// lacks them. Read rules are satisfied by ANY listed permission; all other
// rules require ALL of them.
type rule struct {
	permissions []gallery.Permission
	anyOf       bool
	denial      string
}

type ruleKey struct {
	resource Resource
	action   Action
}

var rules = map[ruleKey]rule{
	{ResourceAlbum, ActionCreate}: {
		permissions: []gallery.Permission{gallery.PermDirsCreate},
		denial:      "You do not have permission to create albums.",
	},
	{ResourceAlbum, ActionRead}: {
		permissions: []gallery.Permission{gallery.PermDirsList, gallery.PermDirsView},
		anyOf:       true,
		denial:      "You do not have permission to view albums.",
	},
	{ResourceAlbum, ActionUpdate}: {
		permissions: []gallery.Permission{gallery.PermDirsEdit},
		denial:      "You do not have permission to edit albums.",
	},
	{ResourceAlbum, ActionDelete}: {
		permissions: []gallery.Permission{gallery.PermDirsDelete},
		denial:      "You do not have permission to delete albums.",
	},
	{ResourcePhoto, ActionCreate}: {
		permissions: []gallery.Permission{gallery.PermFilesCreate},
		denial:      "You do not have permission to upload photos.",
	},
	{ResourcePhoto, ActionRead}: {
		permissions: []gallery.Permission{gallery.PermFilesList, gallery.PermFilesView},
		anyOf:       true,
		denial:      "You do not have permission to view photos.",
	},
	{ResourcePhoto, ActionUpdate}: {
		permissions: []gallery.Permission{gallery.PermFilesEdit},
		denial:      "You do not have permission to edit photos.",
	},
	{ResourcePhoto, ActionDelete}: {
		permissions: []gallery.Permission{gallery.PermFilesDelete},
		denial:      "You do not have permission to delete photos.",
	},
}

// Enforce checks the actor's permission set against the policy table. It is
// a pure function of data already on the actor: no state, no network.
// Denials carry the table's fixed message as a Forbidden error.
func Enforce(actor *gallery.Actor, resource Resource, action Action) error {
	r, ok := rules[ruleKey{resource, action}]
	if !ok {
		return apperrors.Forbidden("Unknown resource or action.")
	}

	if r.anyOf {
		if !actor.HasAnyPermission(r.permissions) {
			return apperrors.Forbidden(r.denial)
		}
		return nil
	}

	if !actor.HasPermissions(r.permissions) {
		return apperrors.Forbidden(r.denial)
	}
	return nil
}

// IsAuthorized returns a boolean version of Enforce
func IsAuthorized(actor *gallery.Actor, resource Resource, action Action) bool {
	return Enforce(actor, resource, action) == nil
}
