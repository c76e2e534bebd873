package client

// FileInfo is one entry of the server's file listing.
type FileInfo struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

// DownloadOptions configures a download.
type DownloadOptions struct {
	ID string
	// LocalPath is the destination. Empty uses the server-provided file name
	// inside Dir; "-" returns the body to the caller instead.
	LocalPath string
	Dir       string
}

type DownloadResult struct {
	ID          string `json:"id" yaml:"id"`
	LocalPath   string `json:"local_path" yaml:"local_path"`
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Size        int64  `json:"size" yaml:"size"`
}
