// Package analyzer provides the HTTP handlers behind the analyzer page:
// the page itself, Analyze, Clear and the result download.
package analyzer

import "text-analyzer/internal/domain/entity"

// DownloadPath is the route serving the session's result file.
const DownloadPath = "/download"

// OutputsDTO is the JSON form of the three UI outputs.
// DownloadURL is null when there is no file to offer.
type OutputsDTO struct {
	Summary     string  `json:"summary"`
	WordCount   string  `json:"word_count"`
	DownloadURL *string `json:"download_url"`
}

func toDTO(o entity.Outputs) OutputsDTO {
	return OutputsDTO{
		Summary:     o.Summary,
		WordCount:   o.WordCount,
		DownloadURL: o.Download,
	}
}
