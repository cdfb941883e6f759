package httpx

type ctxKey string

// CtxKeyUserID carries the authenticated user's id, set by whatever layer
// resolves the session, and read by the per-user rate limiter.
const CtxKeyUserID ctxKey = "user_id"
