package model

// Project is a collaborative DAW project. Users are referenced by UUID
// only — the project never owns user records.
type Project struct {
	UUID       string   `json:"uuid"        db:"uuid"`
	Name       string   `json:"name"        db:"name"`
	DAWName    string   `json:"daw_name"    db:"daw_name"`
	Version    int      `json:"version"     db:"version"` // current version (history count)
	Owner      string   `json:"owner"       db:"owner"`   // UUID of the owning user
	Users      []string `json:"users"`                    // UUIDs of collaborators
	CoverArt   string   `json:"cover_art,omitempty" db:"cover_art"`
	IsFinished bool     `json:"is_finished" db:"is_finished"`
	Private    bool     `json:"private"     db:"private"`
	UpdatedAt  int64    `json:"updated_at"  db:"updated_at"` // epoch ms
}

// ProjectHistory is one committed version of a project.
type ProjectHistory struct {
	UUID             string          `json:"uuid"         db:"uuid"`
	ProjectUUID      string          `json:"project_uuid" db:"project_uuid"`
	DAWVersion       string          `json:"daw_version"  db:"daw_version"`
	CreatedAt        int64           `json:"created_at"   db:"created_at"` // epoch ms
	PluginCount      int             `json:"plugin_count" db:"plugin_count"`
	TrackCount       int             `json:"track_count"  db:"track_count"`
	Plugins          []ProjectPlugin `json:"plugins"`
	Committees       []string        `json:"committees"` // UUIDs of the users who committed this version
	Summary          string          `json:"summary"     db:"summary"`
	Path             string          `json:"path"        db:"path"` // CDN path of the project files
	Comments         []string        `json:"comments"`              // comment UUIDs
	RenderPreviewURL string          `json:"render_preview_url,omitempty" db:"render_preview_url"`
}

// ProjectPlugin describes one plugin used in a project version.
type ProjectPlugin struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Arch       int    `json:"arch"` // 32 or 64 (bit)
	VSTVersion string `json:"vst_version"`
}

// Comment is a remark left on a project version.
type Comment struct {
	UUID      string `json:"uuid"       db:"uuid"`
	Content   string `json:"content"    db:"content"`
	CreatedAt int64  `json:"created_at" db:"created_at"` // epoch ms
	UpdatedAt int64  `json:"updated_at" db:"updated_at"` // epoch ms
}
