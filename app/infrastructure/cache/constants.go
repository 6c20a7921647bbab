package cache

const (
	CacheVersion             = "v1"
	SessionKeyPattern        = CacheVersion + ":session:%s"
	InvitationLockKeyPattern = CacheVersion + ":invitation:lock:%s"
	SessionLockKeyPattern    = CacheVersion + ":session:lock:%s"
)
