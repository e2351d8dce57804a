package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/share"
	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
	"github.com/loaniq/loaniq-go/upload"
)

// UploadRunTTL is how long a run entry may go untouched; an evicted run is cancelled.
var UploadRunTTL = 60 * time.Minute

var (
	uploadRuns = ttlworker.NewCacheOn(UploadRunTTL, [4]func(string, *uploadRun){
		nil, nil, func(_ string, run *uploadRun) {
			if run != nil {
				run.cancel()
			}
		}, nil,
	})
	uploadRunMu sync.Mutex // serializes every uploadRuns access; Get refreshes expiry unlocked
	uploadRunWG sync.WaitGroup
)

type uploadRun struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// claimUploadRun registers the run context of a session. It refuses while another run of
// the same session is registered, leaving that run untouched.
func claimUploadRun(sessionId string) (context.Context, bool) {
	uploadRunMu.Lock()
	defer uploadRunMu.Unlock()
	if run := uploadRuns.Get(sessionId); run != nil {
		return nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	uploadRuns.Set(sessionId, &uploadRun{ctx: ctx, cancel: cancel})
	uploadRunWG.Add(1)
	return ctx, true
}

func finishUploadRun(sessionId string, ctx context.Context) {
	uploadRunMu.Lock()
	defer uploadRunMu.Unlock()
	defer uploadRunWG.Done()
	if run := uploadRuns.Get(sessionId); run != nil && run.ctx == ctx {
		uploadRuns.Delete(sessionId)
	}
}

// uploadRunActive reports whether a run of the session is registered. It stays true
// until the run's follow-up work (chat context, upload_end) is done.
func uploadRunActive(sessionId string) bool {
	uploadRunMu.Lock()
	defer uploadRunMu.Unlock()
	return uploadRuns.Get(sessionId) != nil
}

// CancelUploadRuns aborts every running batch; the in-flight items fail and the rest stay
// pending. Used on shutdown.
func CancelUploadRuns() int {
	uploadRunMu.Lock()
	defer uploadRunMu.Unlock()
	var ids []string
	_ = uploadRuns.Range(func(id string, run *uploadRun) error {
		if run != nil {
			ids = append(ids, id)
		}
		return nil
	})
	for _, id := range ids {
		uploadRuns.Delete(id)
	}
	return len(ids)
}

// WaitUploadRuns blocks until every started run has finished or ctx is done.
func WaitUploadRuns(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uploadRunWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type UploadSessionController struct {
	app *models.App
}

func NewUploadSessionController(app *models.App) *UploadSessionController {
	return &UploadSessionController{app: app}
}

func sessionView(entry *share.UploadSessionEntry) types.UploadSessionView {
	s := entry.Session
	return types.UploadSessionView{
		SessionId:  entry.ID,
		Label:      entry.Label,
		Items:      s.Snapshot(),
		AnyPending: s.AnyPending(),
		AllDone:    s.AllDone(),
		Running:    s.Running() || uploadRunActive(entry.ID),
		Last:       s.LastSummary(),
	}
}

func (ctrl *UploadSessionController) lookup(c *gin.Context) (*share.UploadSessionEntry, bool) {
	entry, ok := ctrl.app.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Session not found or expired"))
		return nil, false
	}
	return entry, true
}

// HandleCreate creates an empty upload session.
// POST /api/self/v1/upload-sessions
func (ctrl *UploadSessionController) HandleCreate(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	entry := ctrl.app.Sessions.Create(func(id string) *upload.Session {
		notifier := notify.SessionNotifier{SessionId: id}
		opts := upload.OptionsFromConfig(cfg)
		opts.Notifier = notifier
		opts.Observer = notifier.Observe
		if ctrl.app.Counter != nil {
			opts.Refresher = ctrl.app.Counter
		}
		return upload.New(ctrl.app.Client, opts)
	})
	tool.DefaultLogger.Infof("[UploadSession] Created %s (%s)", entry.ID, entry.Label)
	c.JSON(http.StatusCreated, gin.H{"sessionId": entry.ID, "label": entry.Label})
}

// HandleList returns every live session.
// GET /api/self/v1/upload-sessions
func (ctrl *UploadSessionController) HandleList(c *gin.Context) {
	entries := ctrl.app.Sessions.List()
	views := make([]types.UploadSessionView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, sessionView(entry))
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(views))
}

// HandleGet returns the session snapshot.
// GET /api/self/v1/upload-sessions/:id
func (ctrl *UploadSessionController) HandleGet(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionView(entry))
}

// HandleAddFiles validates and appends files. Accepts multipart (field "files", optional
// "profile") or JSON {files:[{fileUrl:"file:///..."}], profile}.
// POST /api/self/v1/upload-sessions/:id/files
func (ctrl *UploadSessionController) HandleAddFiles(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	cfg := tool.GetCurrentConfig()

	var (
		profile  string
		accepted []types.FileHandle
		rejected []types.FileRejection
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart form: "+err.Error()))
			return
		}
		if values := form.Value["profile"]; len(values) > 0 {
			profile = values[0]
		}
		allow, err := ctrl.allowList(profile, cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("No files provided"))
			return
		}
		for _, header := range headers {
			fh, err := saveUploadedFile(c, header, allow, cfg.UploadFolder)
			if err != nil {
				rejected = append(rejected, types.FileRejection{FileName: header.Filename, Reason: err.Error()})
				continue
			}
			accepted = append(accepted, fh)
		}
	} else {
		var request types.AddFilesRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid JSON request: "+err.Error()))
			return
		}
		if len(request.Files) == 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("No files provided"))
			return
		}
		profile = request.Profile
		allow, err := ctrl.allowList(profile, cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		resolved := make([]types.FileHandle, 0, len(request.Files))
		for _, input := range request.Files {
			fh, err := tool.ResolveFileInput(input)
			if err != nil {
				name := input.FileName
				if name == "" {
					name = input.FileUrl
				}
				rejected = append(rejected, types.FileRejection{FileName: name, Reason: err.Error()})
				continue
			}
			resolved = append(resolved, fh)
		}
		var refused []types.FileRejection
		accepted, refused = allow.Filter(resolved)
		rejected = append(rejected, refused...)
	}

	result := types.AddFilesResult{
		Added:    entry.Session.AddFiles(accepted...),
		Rejected: rejected,
	}
	for _, r := range rejected {
		tool.DefaultLogger.Infof("[UploadSession] Rejected %s: %s", r.FileName, r.Reason)
	}
	if len(result.Added) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnErrorWithData("No acceptable files", map[string]any{"result": result}))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctrl *UploadSessionController) allowList(profile string, cfg types.AppConfig) (tool.AllowList, error) {
	if strings.TrimSpace(profile) == "" {
		profile = cfg.AllowProfile
	}
	if strings.TrimSpace(profile) == "" {
		profile = tool.ProfileDocuments
	}
	return tool.LookupAllowList(profile, cfg.MaxFileSizeMB)
}

// saveUploadedFile checks the declared name and size first so refused files never touch disk.
func saveUploadedFile(c *gin.Context, header *multipart.FileHeader, allow tool.AllowList, folder string) (types.FileHandle, error) {
	name := filepath.Base(header.Filename)
	declared := types.FileHandle{
		Name:     name,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
	}
	if err := allow.Validate(declared); err != nil {
		return types.FileHandle{}, err
	}
	if folder == "" {
		folder = tool.DefaultUploadFolder
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return types.FileHandle{}, fmt.Errorf("failed to create upload folder: %w", err)
	}
	path := tool.NextAvailablePath(folder, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return types.FileHandle{}, fmt.Errorf("failed to save file: %w", err)
	}
	fh, err := tool.DetectFile(path)
	if err != nil {
		return types.FileHandle{}, err
	}
	fh.Name = name
	return fh, nil
}

// HandleRemoveFile removes a pending item.
// DELETE /api/self/v1/upload-sessions/:id/files/:index
func (ctrl *UploadSessionController) HandleRemoveFile(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid index"))
		return
	}
	if index < 0 || index >= entry.Session.Len() {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Item not found"))
		return
	}
	if !entry.Session.RemoveItem(index) {
		c.JSON(http.StatusConflict, tool.FastReturnError("Only pending items can be removed"))
		return
	}
	c.JSON(http.StatusOK, sessionView(entry))
}

// HandleStart uploads every pending item. With ?async=true it answers 202 right away.
// POST /api/self/v1/upload-sessions/:id/start
func (ctrl *UploadSessionController) HandleStart(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	if entry.Session.Running() || uploadRunActive(entry.ID) {
		c.JSON(http.StatusConflict, tool.FastReturnError(upload.ErrUploadInProgress.Error()))
		return
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		go func() {
			if _, err := ctrl.run(entry); err != nil {
				tool.DefaultLogger.Warnf("[UploadSession] Background run of %s: %v", entry.ID, err)
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"sessionId": entry.ID, "message": "Upload started"})
		return
	}

	summary, err := ctrl.run(entry)
	if err != nil {
		if errors.Is(err, upload.ErrUploadInProgress) {
			c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	result := gin.H{"summary": summary, "session": sessionView(entry)}
	switch {
	case summary.Total > 0 && summary.Failed == summary.Total:
		c.JSON(http.StatusInternalServerError, tool.FastReturnErrorWithData("All files failed to upload", map[string]any{"result": result}))
	case summary.Failed > 0:
		c.JSON(http.StatusMultiStatus, tool.FastReturnMessageWithResult("Batch upload completed with some failures", result))
	default:
		c.JSON(http.StatusOK, tool.FastReturnMessageWithResult(summary.String(), result))
	}
}

func (ctrl *UploadSessionController) run(entry *share.UploadSessionEntry) (types.BatchSummary, error) {
	ctx, ok := claimUploadRun(entry.ID)
	if !ok {
		return types.BatchSummary{}, upload.ErrUploadInProgress
	}
	defer finishUploadRun(entry.ID, ctx)

	summary, err := entry.Session.StartUpload(ctx)
	if err != nil {
		return summary, err
	}
	if summary.Succeeded > 0 && ctrl.app.Chat != nil {
		if doc := entry.Session.LatestDocument(); doc != nil {
			ctrl.app.Chat.SetDocument(doc)
		}
	}
	if err := notify.SendUploadEndNotification(entry.ID, summary); err != nil {
		tool.DefaultLogger.Debugf("Failed to send upload end notification: %v", err)
	}
	return summary, nil
}

// HandleReset clears the session for a new batch.
// POST /api/self/v1/upload-sessions/:id/reset
func (ctrl *UploadSessionController) HandleReset(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	if err := entry.Session.Reset(); err != nil {
		c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, sessionView(entry))
}

// HandleDelete forgets a session that is not running.
// DELETE /api/self/v1/upload-sessions/:id
func (ctrl *UploadSessionController) HandleDelete(c *gin.Context) {
	entry, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	if entry.Session.Running() || uploadRunActive(entry.ID) {
		c.JSON(http.StatusConflict, tool.FastReturnError(upload.ErrUploadInProgress.Error()))
		return
	}
	ctrl.app.Sessions.Delete(entry.ID)
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
