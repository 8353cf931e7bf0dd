package sessions

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khansaheem825/grammar-evaluator/internal/metrics"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
)

// LocalsKey is where the resolved session is stored on the request context.
const LocalsKey = "session"

// HeaderName carries the session id. Unknown or absent ids get a fresh
// session; the id is always echoed back so the client can stick to it.
const HeaderName = "X-Session-ID"

func Middleware(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := manager.GetOrCreate(c.Get(HeaderName))
		c.Locals(LocalsKey, sess)
		c.Set(HeaderName, sess.ID)

		metrics.SessionsActive.Set(float64(manager.Count()))

		return c.Next()
	}
}

// FromCtx retrieves the session placed by Middleware.
func FromCtx(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(LocalsKey).(*session.Session)
	return sess
}
