package job

import "github.com/dmitrymomot/hashtags/pkg/store"

const (
	// KindSync identifies hashtag sync jobs.
	KindSync = "hashtags:sync"

	// KindRefreshTrending identifies trending cache refresh jobs.
	KindRefreshTrending = "hashtags:refresh_trending"
)

// SyncArgs carries the owner and text whose hashtags should replace the
// owner's current attachments.
type SyncArgs struct {
	OwnerType string `json:"owner_type"`
	OwnerID   string `json:"owner_id"`
	Text      string `json:"text"`
}

// Kind implements river.JobArgs.
func (SyncArgs) Kind() string { return KindSync }

// Owner returns the owner the job syncs.
func (a SyncArgs) Owner() store.Owner {
	return store.Owner{Type: a.OwnerType, ID: a.OwnerID}
}

// RefreshTrendingArgs is the periodic trending refresh job.
type RefreshTrendingArgs struct{}

// Kind implements river.JobArgs.
func (RefreshTrendingArgs) Kind() string { return KindRefreshTrending }
