package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserType  CtxKey = "UserType"
	KeySessionID CtxKey = "SessionID"
	KeyUser      CtxKey = "User"
)
