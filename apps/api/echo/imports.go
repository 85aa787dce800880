package echoapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing/connector"
)

var (
	errUnknownEntityKind = echo.NewHTTPError(http.StatusBadRequest, "unknown entity kind")
	errNoFileUploaded    = echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	errFileTooLarge      = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "uploaded file too large")
)

type importAPI struct {
	conf       *core.Config
	logger     core.Logger
	processors map[importing.EntityKind]importing.Processor
	historySvc *importing.HistoryService
	emailSvc   core.EmailService
	client     *connector.Client
}

func registerImportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	clientCfg := connector.DefaultClientConfig()
	clientCfg.Timeout = deps.Conf.Import.ScopeTimeout
	clientCfg.RateLimit = deps.Conf.Import.RateLimit
	clientCfg.RateBurst = deps.Conf.Import.RateBurst

	api := importAPI{
		conf:   deps.Conf,
		logger: deps.Logger,
		processors: map[importing.EntityKind]importing.Processor{
			importing.EntityStudents:   importing.NewStudentProcessor(deps.StudentSvc),
			importing.EntityAttendance: importing.NewAttendanceProcessor(deps.AttendanceSvc),
			importing.EntityGrades:     importing.NewGradeProcessor(deps.GradeSvc),
		},
		historySvc: deps.HistorySvc,
		emailSvc:   deps.EmailSvc,
		client:     connector.NewClient(clientCfg),
	}

	ig := g.Group("/imports", jwt, staffMiddleware())

	ig.POST("/:kind/file", api.importFile)
	ig.POST("/students/sis", api.importSIS)
	ig.POST("/students/classroom", api.importClassroomStudents)
	ig.POST("/attendance/biometric", api.importBiometric)
	ig.POST("/attendance/rfid", api.importRFID)
	ig.POST("/grades/classroom", api.importClassroomGrades)
	ig.POST("/grades/lms", api.importLMS)

	ig.GET("/templates/:kind", api.template)
	ig.GET("/history", api.listHistory, adminMiddleware())
}

// importResponse is the outbound batch summary.
type importResponse struct {
	Message       string                   `json:"message"`
	Error         string                   `json:"error,omitempty"`
	ID            string                   `json:"id"`
	Imported      int                      `json:"imported"`
	Failed        int                      `json:"failed"`
	Total         int                      `json:"total"`
	Errors        []importing.RowError     `json:"errors"`
	ScopeFailures []importing.ScopeFailure `json:"scopeFailures,omitempty"`
	Cancelled     bool                     `json:"cancelled,omitempty"`
}

func newImportResponse(r *importing.Report) importResponse {
	return importResponse{
		Message:       fmt.Sprintf("Import completed. %d imported, %d failed.", r.Imported(), r.Failed),
		ID:            r.ID,
		Imported:      r.Imported(),
		Failed:        r.Failed,
		Total:         r.Total,
		Errors:        r.Errors,
		ScopeFailures: r.ScopeFailures,
		Cancelled:     r.Cancelled,
	}
}

// Handlers

func (api *importAPI) importFile(ctx echo.Context) error {
	kind, ok := importing.ParseEntityKind(ctx.Param("kind"))
	if !ok {
		return errUnknownEntityKind
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return errNoFileUploaded
	}
	if fh.Size > api.conf.Import.MaxUploadSize {
		return errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, api.conf.Import.MaxUploadSize))
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	return api.run(ctx, kind, importing.FileSource{Filename: fh.Filename, Data: data})
}

func (api *importAPI) importSIS(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{Connector: connector.NewSIS(api.client), Config: cfg}
	return api.run(ctx, importing.EntityStudents, src)
}

func (api *importAPI) importClassroomStudents(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{
		Connector: connector.NewClassroom(api.client, importing.EntityStudents),
		Config:    cfg,
	}
	return api.run(ctx, importing.EntityStudents, src)
}

func (api *importAPI) importBiometric(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{Connector: connector.NewBiometric(api.client), Config: cfg}
	return api.run(ctx, importing.EntityAttendance, src)
}

func (api *importAPI) importRFID(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{Connector: connector.NewRFID(api.client), Config: cfg}
	return api.run(ctx, importing.EntityAttendance, src)
}

func (api *importAPI) importClassroomGrades(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{
		Connector: connector.NewClassroom(api.client, importing.EntityGrades),
		Config:    cfg,
	}
	return api.run(ctx, importing.EntityGrades, src)
}

func (api *importAPI) importLMS(ctx echo.Context) error {
	cfg, err := api.bindConfig(ctx)
	if err != nil {
		return err
	}
	src := connector.Source{Connector: connector.NewLMS(api.client), Config: cfg}
	return api.run(ctx, importing.EntityGrades, src)
}

func (api *importAPI) template(ctx echo.Context) error {
	kind, ok := importing.ParseEntityKind(ctx.Param("kind"))
	if !ok {
		return errUnknownEntityKind
	}
	t, ok := importing.TemplateFor(kind)
	if !ok {
		return errUnknownEntityKind
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+t.Filename)
	return ctx.Blob(http.StatusOK, "text/csv", t.CSV())
}

func (api *importAPI) listHistory(ctx echo.Context) error {
	reports, err := api.historySvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing import reports")
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *importAPI) bindConfig(ctx echo.Context) (connector.Config, error) {
	var cfg connector.Config
	if err := ctx.Bind(&cfg); err != nil {
		return connector.Config{}, errors.Wrap(err, "binding connector config")
	}
	cfg.ScopeTimeout = api.conf.Import.ScopeTimeout
	return cfg, nil
}

func (api *importAPI) run(ctx echo.Context, kind importing.EntityKind, src importing.Source) error {
	actor := contextActor(ctx)
	batch := importing.NewBatch(api.processors[kind], importing.WithWorkers(api.conf.Import.Workers))

	report, runErr := batch.Run(ctx.Request().Context(), src, actor)
	if report != nil {
		// the request context may already be cancelled; still record the report
		if err := api.historySvc.Record(context.Background(), report); err != nil {
			api.logger.Error("saving import report", err)
		}
	}
	if runErr != nil {
		if isInputError(runErr) {
			return runErr
		}
		// systemic store failure: answer with the partial report so the caller
		// knows what landed before the abort
		api.logger.Error("import batch aborted", runErr)
		resp := newImportResponse(report)
		resp.Message = fmt.Sprintf("Import aborted. %d imported, %d failed before the failure.", report.Imported(), report.Failed)
		resp.Error = http.StatusText(http.StatusInternalServerError)
		return ctx.JSON(http.StatusInternalServerError, resp)
	}

	api.notify(report)
	return ctx.JSON(http.StatusOK, newImportResponse(report))
}

// isInputError reports whether the batch failed on its input (format, payload,
// connector) rather than on the canonical store; those keep their 4xx/5xx
// mappings in the central error handler.
func isInputError(err error) bool {
	var mErr *importing.MalformedInputError
	var cErr *importing.ConnectorError
	return errors.Is(err, importing.ErrUnsupportedFormat) || errors.As(err, &mErr) || errors.As(err, &cErr)
}

// notify emails the batch summary to the importing actor when enabled.
func (api *importAPI) notify(r *importing.Report) {
	if !api.conf.Import.NotifyActor || r.Actor == "" {
		return
	}
	if _, err := mail.ParseAddress(r.Actor); err != nil {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: r.Actor}},
		Subject: fmt.Sprintf("%s import %s", r.Kind, r.Status),
		TextContent: fmt.Sprintf(
			"Your %s import from %s finished with status %s.\n\nImported: %d\nFailed: %d\nTotal: %d\n",
			r.Kind, r.Source, r.Status, r.Imported(), r.Failed, r.Total,
		),
	}
	api.emailSvc.SendMessages(msg)
}
