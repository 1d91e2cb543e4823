package handler

type ContextKey string

const (
	ShiftCtx ContextKey = "shift"
)
