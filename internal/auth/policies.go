package auth

import (
	"fmt"

	"algoarena/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start. adminSubjects are OIDC subjects
// granted the admin role.
func SeedDefaultPolicies(e casbin.IEnforcer, adminSubjects []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous users get the public read surface and the login flow.
	// Admins get the full management surface on top of that.
	policies := [][]string{
		{"anonymous", "/topics", "GET"},
		{"anonymous", "/topics/*", "GET"},
		{"anonymous", "/documents/*", "GET"},
		{"anonymous", "/stats", "GET"},
		{"anonymous", "/auth/login", "GET"},
		{"anonymous", "/auth/callback", "GET"},
		{"anonymous", "/auth/logout", "GET"},

		{"admin", "/admin/*", "*"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Granting the 'admin' role all permissions of the 'anonymous' role.
	if has, _ := e.HasRoleForUser("admin", "anonymous"); !has {
		if _, err := e.AddRoleForUser("admin", "anonymous"); err != nil {
			log.Error(err, "Failed to add role 'admin' -> 'anonymous'")
		}
	}

	// Bind the configured subjects to the admin role.
	for _, subject := range adminSubjects {
		if has, _ := e.HasRoleForUser(subject, "admin"); !has {
			if _, err := e.AddRoleForUser(subject, "admin"); err != nil {
				log.Error(err, fmt.Sprintf("Failed to grant admin role to %q", subject))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
