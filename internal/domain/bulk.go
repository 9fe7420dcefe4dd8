package domain

// BulkAction is the closed set of actions a bulk operation can apply.
type BulkAction string

const (
	BulkPublish          BulkAction = "publish"
	BulkUnpublish        BulkAction = "unpublish"
	BulkArchive          BulkAction = "archive"
	BulkDelete           BulkAction = "delete"
	BulkUpdateCategories BulkAction = "update-categories"
	BulkUpdateTags       BulkAction = "update-tags"
	BulkUpdateAuthor     BulkAction = "update-author"
	BulkSchedulePublish  BulkAction = "schedule-publish"
	BulkDuplicate        BulkAction = "duplicate"
	BulkExport           BulkAction = "export"
)

// MaxBulkItems caps the working set of a single bulk operation.
const MaxBulkItems = 100

// ValidBulkContentType reports whether t can appear in a bulk operation.
// Unlike ContentType.Valid, bulk operations also accept mixed.
func ValidBulkContentType(t ContentType) bool {
	return t == ContentTypePost || t == ContentTypePage || t == ContentTypeMixed
}

// BulkOperation a single requested action across a batch of content ids.
type BulkOperation struct {
	Action      BulkAction     `json:"action" binding:"required"`
	ContentType ContentType    `json:"content_type" binding:"required"`
	ContentIDs  []string       `json:"content_ids" binding:"required"`
	Parameters  map[string]any `json:"parameters"`
}

// BulkItemResult per-item outcome inside a bulk operation.
type BulkItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Data carries the serialized item for read-only actions (export).
	Data any `json:"data,omitempty"`
}

// BulkResult transient report of a bulk operation. Not persisted.
// Invariants: Success+Failed == Total and len(Results) == Total.
type BulkResult struct {
	Total    int              `json:"total"`
	Success  int              `json:"success"`
	Failed   int              `json:"failed"`
	Results  []BulkItemResult `json:"results"`
	Errors   []string         `json:"errors"`
	Warnings []string         `json:"warnings"`
}

// BulkValidation outcome of validating a bulk operation up front.
// Validation failure is all-or-nothing; nothing executes when invalid.
type BulkValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// BulkParamSpec describes one parameter an action accepts.
type BulkParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string, string_list, timestamp
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// BulkActionSpec declarative catalog entry for one bulk action.
// Purely descriptive; callers use it to render input forms.
type BulkActionSpec struct {
	Action      BulkAction      `json:"action"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Parameters  []BulkParamSpec `json:"parameters"`
	// AppliesTo limits the action to certain operation content types.
	// Empty means the action applies to post, page, and mixed alike.
	AppliesTo []ContentType `json:"applies_to,omitempty"`
}

// AllowedFor reports whether the action is in the catalog for t.
func (s BulkActionSpec) AllowedFor(t ContentType) bool {
	if len(s.AppliesTo) == 0 {
		return true
	}
	for _, allowed := range s.AppliesTo {
		if allowed == t {
			return true
		}
	}
	return false
}

// BulkActionCatalog lists every supported bulk action. The catalog is the
// single source of truth for validation and for getAvailableActions; the
// execution dispatch switches over the same constants.
var BulkActionCatalog = []BulkActionSpec{
	{Action: BulkPublish, Label: "Publish", Description: "Set status to published"},
	{Action: BulkUnpublish, Label: "Unpublish", Description: "Set status back to draft"},
	{Action: BulkArchive, Label: "Archive", Description: "Set status to archived"},
	{Action: BulkDelete, Label: "Delete", Description: "Delete content permanently"},
	{
		Action: BulkUpdateCategories, Label: "Update categories",
		Description: "Replace the category list on each item",
		Parameters: []BulkParamSpec{
			{Name: "categories", Type: "string_list", Required: true, Description: "Categories to assign"},
		},
		AppliesTo: []ContentType{ContentTypePost, ContentTypeMixed},
	},
	{
		Action: BulkUpdateTags, Label: "Update tags",
		Description: "Replace the tag list on each item",
		Parameters: []BulkParamSpec{
			{Name: "tags", Type: "string_list", Required: true, Description: "Tags to assign"},
		},
		AppliesTo: []ContentType{ContentTypePost, ContentTypeMixed},
	},
	{
		Action: BulkUpdateAuthor, Label: "Change author",
		Description: "Reassign each item to another author",
		Parameters: []BulkParamSpec{
			{Name: "author_id", Type: "string", Required: true, Description: "New author id"},
		},
	},
	{
		Action: BulkSchedulePublish, Label: "Schedule publish",
		Description: "Create a pending publish schedule for each item",
		Parameters: []BulkParamSpec{
			{Name: "scheduled_at", Type: "timestamp", Required: true, Description: "When to publish (RFC3339)"},
		},
	},
	{Action: BulkDuplicate, Label: "Duplicate", Description: "Clone each item as a new draft"},
	{Action: BulkExport, Label: "Export", Description: "Return each item's serialized payload"},
}

// FindBulkAction returns the catalog entry for a, if declared.
func FindBulkAction(a BulkAction) (BulkActionSpec, bool) {
	for _, spec := range BulkActionCatalog {
		if spec.Action == a {
			return spec, true
		}
	}
	return BulkActionSpec{}, false
}
