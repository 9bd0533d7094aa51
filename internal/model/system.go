package model

// VersionInfo contains version and schema information for the application.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	Commit     string `json:"commit"`
	DbVersion  int64  `json:"dbVersion"`
}

// HealthStatus reports whether the service and its database are reachable.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}
