package workforce

// Sentinel slugs, one per entity type. The bootstrap creates each record
// exactly once; re-running it must not duplicate or un-archive them.
const (
	SentinelRoleSlug  = "tba-role"
	SentinelUserSlug  = "tba-user"
	SentinelTaskSlug  = "tba-task"
	SentinelPhaseSlug = "tba-phase"
)
