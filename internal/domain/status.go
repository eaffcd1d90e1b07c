package domain

import "time"

// SyncStatus is the derived synchronization state. It is recomputed on every
// reconciliation attempt and connectivity transition, never persisted.
type SyncStatus struct {
	LastSync time.Time `json:"last_sync"` // Zero until the first successful pass
	Pending  int       `json:"pending"`   // Unresolved pending changes
	Online   bool      `json:"online"`
	Syncing  bool      `json:"syncing"`
}

// StorageInfo describes local store usage.
type StorageInfo struct {
	Path      string `json:"path"`
	UsedBytes int64  `json:"used_bytes"`
	Tasks     int    `json:"tasks"`
}
