package artifact

import "codeberg.org/mutker/shellymon/internal/errors"

const (
	ErrCreateDir   = errors.ErrorCode("artifact_create_dir_failed")
	ErrWriteCSV    = errors.ErrorCode("artifact_write_csv_failed")
	ErrRenderPlot  = errors.ErrorCode("artifact_render_plot_failed")
	ErrWriteReport = errors.ErrorCode("artifact_write_report_failed")
)
