package chaterrors

import (
	"net/http"

	"driftpro/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	// ErrChatNotFound also covers chats the caller is not a member of;
	// membership is never disclosed.
	ErrChatNotFound = apperror.New(
		apperror.CodeNotFound,
		"chat not found",
		http.StatusNotFound,
	)
	ErrMessageNotFound = apperror.New(
		apperror.CodeNotFound,
		"message not found",
		http.StatusNotFound,
	)
	ErrInvalidParticipants = apperror.New(
		apperror.CodeInvalidInput,
		"participants must be users of this company",
		http.StatusBadRequest,
	)
	ErrDirectChatSize = apperror.New(
		apperror.CodeInvalidInput,
		"a direct chat has exactly two participants",
		http.StatusBadRequest,
	)
	ErrInvalidMessageType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid message type",
		http.StatusBadRequest,
	)
	ErrEmptyMessage = apperror.New(
		apperror.CodeInvalidInput,
		"message needs content or an attachment",
		http.StatusBadRequest,
	)
	ErrNotMessageSender = apperror.New(
		apperror.CodeForbidden,
		"only the sender can delete a message",
		http.StatusForbidden,
	)
)
