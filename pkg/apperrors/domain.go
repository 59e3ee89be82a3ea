package apperrors

var (
	ErrUserNotFound       = NotFound("user not found")
	ErrRoomNotFound       = NotFound("chat room not found")
	ErrPostNotFound       = NotFound("post not found")
	ErrEmailTaken         = AlreadyExists("email is already registered")
	ErrNameTaken          = AlreadyExists("name is already taken")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrInvalidOtp         = Unauthorized("invalid or expired otp")
	ErrInvalidID          = InvalidArg("invalid id")
	ErrEmptyContent       = InvalidArg("message content cannot be empty")
	ErrNotPostOwner       = Forbidden("only the post owner can modify it")
)
