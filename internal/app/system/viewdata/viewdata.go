// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	notificationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/notifications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// SiteName is the public name of the platform.
const SiteName = "Ma part de soleil"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Unread notification count for the navbar badge. Zero for
	// visitors or when the lookup fails; the badge is cosmetic.
	UnreadNotifications int64

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM creates a populated BaseVM for a page. db may be nil for
// pages that don't show the notification badge (error pages, tests).
func NewBaseVM(r *http.Request, db *mongo.Database, title, backDefault string) BaseVM {
	role, name, userID, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}

	if db != nil && signedIn {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		recipient := userID.Hex()
		if role == "admin" {
			recipient = models.AdminRecipient
		}
		if n, err := notificationstore.New(db).UnreadCount(ctx, recipient); err == nil {
			vm.UnreadNotifications = n
		}
	}

	return vm
}
