package service

import (
	"context"
	"regexp"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/pkg/logger"
)

// slugPattern is the sole defense against identifier injection: the slug is
// used verbatim in URLs and queries, so it is validated once here before any
// store access.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type IDispatcherService interface {
	Dispatch(ctx context.Context, sessionID string, req *dto.ActionRequest) *dto.ActionResult
}

type dispatcherService struct {
	notebookService INotebookService
	logger          logger.ILogger
}

func NewDispatcherService(notebookService INotebookService, sysLogger logger.ILogger) IDispatcherService {
	return &dispatcherService{
		notebookService: notebookService,
		logger:          sysLogger,
	}
}

func failure(message string) *dto.ActionResult {
	return &dto.ActionResult{Success: false, Message: message}
}

func (s *dispatcherService) Dispatch(ctx context.Context, sessionID string, req *dto.ActionRequest) *dto.ActionResult {
	if req.Id == "" || !slugPattern.MatchString(req.Id) {
		return failure(ErrInvalidID.Error())
	}

	var (
		data map[string]interface{}
		err  error
	)

	switch req.Action {
	case "verify_password":
		var res *dto.VerifyPasswordResponse
		res, err = s.notebookService.VerifyPassword(ctx, sessionID, req.Id, req.Password)
		if err == nil {
			data = map[string]interface{}{
				"always_require_password": res.AlwaysRequirePassword,
				"unlock_token":            res.UnlockToken,
			}
		}
	case "create_note":
		err = s.notebookService.Create(ctx, sessionID, req.Id, req.Password, req.ConfirmPassword)
	case "save_note":
		err = s.notebookService.SaveContent(ctx, sessionID, req.Id, req.Content)
	case "update_settings":
		alwaysRequire := req.AlwaysRequirePassword != nil && *req.AlwaysRequirePassword
		err = s.notebookService.UpdateSettings(ctx, sessionID, req.Id, alwaysRequire)
	case "update_public":
		isPublic := req.IsPublic != nil && *req.IsPublic
		err = s.notebookService.UpdatePublic(ctx, sessionID, req.Id, isPublic)
	case "get_public_status":
		var isPublic bool
		isPublic, err = s.notebookService.GetPublicStatus(ctx, sessionID, req.Id)
		if err == nil {
			data = map[string]interface{}{"ispublic": isPublic}
		}
	case "set_archive_code":
		code := ""
		if req.ArchiveCode != nil {
			code = *req.ArchiveCode
		}
		err = s.notebookService.SetArchiveCode(ctx, sessionID, req.Id, code)
	default:
		return failure(ErrInvalidAction.Error())
	}

	if err != nil {
		if IsUserFacing(err) {
			return failure(err.Error())
		}
		s.logger.Error("DISPATCH", "Action failed", map[string]interface{}{
			"action": req.Action,
			"id":     req.Id,
			"error":  err.Error(),
		})
		return failure("failed to process request")
	}

	return &dto.ActionResult{Success: true, Data: data}
}
