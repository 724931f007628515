package i18n

// Error message keys
const (
	ErrGeneric           = "error_generic"
	ErrConfigNotFound    = "error_config_not_found"
	ErrConfigInvalid     = "error_config_invalid"
	ErrPathNotExist      = "error_path_not_exist"
	ErrRemoteNotFound    = "error_remote_not_found"
	ErrFailedToList      = "error_failed_to_list"
	ErrFailedToRead      = "error_failed_to_read"
	ErrFailedToWrite     = "error_failed_to_write"
	ErrMountFailed       = "error_mount_failed"
	ErrUnmountFailed     = "error_unmount_failed"
	ErrCopyFailed        = "error_copy_failed"
	ErrFilterRuleInvalid = "error_filter_rule_invalid"
	ErrQuotaUnsupported  = "error_quota_unsupported"
	ErrFailedToGetQuota  = "error_failed_to_get_quota"
	ErrInvalidCacheMode  = "error_invalid_cache_mode"
	ErrNoCommand         = "error_no_command"
	ErrInvalidSchedule   = "error_invalid_schedule"
	ErrWatchNeedsLocal   = "error_watch_needs_local"
	ErrWatchFailed       = "error_watch_failed"
)

// CLI message keys
const (
	MsgMounting    = "msg_mounting"
	MsgExiting     = "msg_exiting"
	MsgListing     = "msg_listing"
	MsgDirectories = "msg_directories"
	MsgFiles       = "msg_files"
	MsgCopying     = "msg_copying"
	MsgCopyDone    = "msg_copy_done"
	MsgRemotes     = "msg_remotes"
	MsgNoRemotes   = "msg_no_remotes"
	MsgAboutTotal  = "msg_about_total"
	MsgAboutUsed   = "msg_about_used"
	MsgAboutFree   = "msg_about_free"
	MsgAboutTrash  = "msg_about_trashed"
	MsgAboutOther  = "msg_about_other"
	MsgAboutObjs   = "msg_about_objects"
	MsgWaiting     = "msg_waiting"
)
