package authpb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/jam/internal/models"
)

var sentinels = []struct {
	err  error
	code codes.Code
}{
	{models.ErrEmailTaken, codes.AlreadyExists},
	{models.ErrInvalidCredentials, codes.Unauthenticated},
	{models.ErrInvalidToken, codes.Unauthenticated},
	{models.ErrEmailNotVerified, codes.PermissionDenied},
	{models.ErrValidation, codes.InvalidArgument},
	{models.ErrNotFound, codes.NotFound},
}

// ToStatus переводит доменную ошибку в статус gRPC. Текст статуса начинается
// с текста sentinel-ошибки, чтобы клиент мог восстановить её.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return status.Error(s.code, s.err.Error()+detail(err, s.err))
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

// FromStatus восстанавливает доменную ошибку из статуса gRPC.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, s := range sentinels {
		if st.Code() != s.code {
			continue
		}
		if rest, found := strings.CutPrefix(st.Message(), s.err.Error()); found {
			return fmt.Errorf("%w%s", s.err, rest)
		}
	}
	return err
}

// detail возвращает пояснение к ошибке валидации, например
// ": password is too short".
func detail(err, sentinel error) string {
	if !errors.Is(sentinel, models.ErrValidation) {
		return ""
	}
	msg := err.Error()
	i := strings.LastIndex(msg, sentinel.Error())
	if i < 0 {
		return ""
	}
	return msg[i+len(sentinel.Error()):]
}
