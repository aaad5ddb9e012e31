package app

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/marketreport/internal/common"
	"github.com/ternarybob/marketreport/internal/handlers"
	"github.com/ternarybob/marketreport/internal/interfaces"
	"github.com/ternarybob/marketreport/internal/services/report"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	ReportService interfaces.ReportService

	ReportHandler *handlers.ReportHandler
	APIHandler    *handlers.APIHandler
}

// New creates the application with all services and handlers wired
func New(config *common.Config) (*App, error) {
	logger := common.GetLogger()

	reportService := report.NewService(report.Options{
		DefaultTitle:   config.Report.DefaultTitle,
		PageSize:       config.Report.PageSize,
		MinTableRows:   config.Report.MinTableRows,
		Disclaimer:     config.Report.Disclaimer,
		ValidateOutput: config.Report.ValidateOutput,
	}, logger)

	a := &App{
		Config:        config,
		Logger:        logger,
		ReportService: reportService,
		ReportHandler: handlers.NewReportHandler(reportService, logger),
		APIHandler:    handlers.NewAPIHandler(),
	}

	logger.Debug().
		Str("default_title", config.Report.DefaultTitle).
		Int("min_table_rows", config.Report.MinTableRows).
		Msg("Application initialized")

	return a, nil
}
