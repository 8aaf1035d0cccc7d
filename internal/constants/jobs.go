package constants

import "time"

// Scheduled job names, also used to trigger them from the admin API.
const (
	JobMarkOverdueAssignments  = "mark_overdue_assignments"
	JobPurgeDeletedInspections = "purge_deleted_inspections"
	JobCleanupOrphanPhotos     = "cleanup_orphan_photos"
)

// DeletedInspectionRetention is how long a soft deleted inspection is kept
// before the purge job removes it for good.
const DeletedInspectionRetention = 30 * 24 * time.Hour
