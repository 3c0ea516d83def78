package serverutils

import (
	"time"

	"cloudnote-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "cn_session"

// SessionMiddleware assigns every visitor an opaque session id cookie and
// refreshes the server-side expiry on each request. Handlers read the id via
// ctx.Locals("session_id").
func SessionMiddleware(sessions contract.SessionRepository, ttl time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := ctx.Cookies(SessionCookieName)
		if sessionID == "" || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			ctx.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				MaxAge:   int(ttl.Seconds()),
			})
		} else {
			_ = sessions.TouchExpiry(ctx.UserContext(), sessionID)
		}

		ctx.Locals("session_id", sessionID)
		return ctx.Next()
	}
}
