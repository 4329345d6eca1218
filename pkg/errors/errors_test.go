package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "upstream service unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	decorated := base.WithDetails(detail)
	if decorated.Details() == nil {
		t.Fatalf("details should be preserved")
	}
	if base.Details() != nil {
		t.Fatalf("WithDetails must not mutate the receiver")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Error() != "CONFLICT: ctx: boom" {
		t.Fatalf("unexpected wrapped string %q", wrapped.Error())
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestPublicMessageAndDetails(t *testing.T) {
	notFound := New(CodeNotFound, "order not found").WithDetails(map[string]string{"orderId": "MTS1"})
	if got := notFound.PublicMessage(); got != "order not found" {
		t.Fatalf("client-safe code should pass its message, got %q", got)
	}
	if notFound.PublicDetails() != nil {
		t.Fatalf("NOT_FOUND details are not exposed")
	}

	internal := Wrap(CodeInternal, stdErrors.New("dial tcp 10.0.0.5:5432"), "load order")
	if got := internal.PublicMessage(); got != "internal server error" {
		t.Fatalf("internal message leaked: %q", got)
	}

	dep := New(CodeDependency, "gateway timeout").WithDetails(map[string]string{"kind": "network_error"})
	if got := dep.PublicMessage(); got != "upstream service unavailable" {
		t.Fatalf("dependency errors use the public message, got %q", got)
	}
	if dep.PublicDetails() == nil {
		t.Fatalf("dependency details are exposed")
	}

	if got := New(CodeValidation, "").PublicMessage(); got != "validation failed" {
		t.Fatalf("empty message should fall back, got %q", got)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := New(CodeNotFound, "order MTS1 not found")
	outer := fmt.Errorf("loading order: %w", inner)

	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("expected IsCode to find NOT_FOUND in chain")
	}
	if IsCode(outer, CodeConflict) {
		t.Fatalf("unexpected CONFLICT match")
	}
	if IsCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(CodeValidation, "unsupported payment method %q", "cash")
	if err.Message() != `unsupported payment method "cash"` {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != `VALIDATION_ERROR: unsupported payment method "cash"` {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("disk full"), "persist order")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
	if dump.Postgres != nil {
		t.Fatalf("expected no postgres detail, got %+v", dump.Postgres)
	}
	if _, ok := dump.LogFields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted without a postgres error")
	}
}

func TestDumpExtractsPostgresDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_id_key", TableName: "orders", Message: "duplicate key"}
	err := Wrap(CodeConflict, fmt.Errorf("insert order: %w", pgErr), "order id taken")

	dump := Dump(err)
	if dump.Postgres == nil || dump.Postgres.Code != "23505" {
		t.Fatalf("expected postgres detail, got %+v", dump.Postgres)
	}
	fields := dump.LogFields()
	if fields["pg_constraint"] != "orders_order_id_key" || fields["error_code"] != CodeConflict {
		t.Fatalf("unexpected log fields %v", fields)
	}

	pqDump := Dump(fmt.Errorf("goose: %w", &pq.Error{Code: "42P07", Table: "orders"}))
	if pqDump.Postgres == nil || pqDump.Postgres.Code != "42P07" || pqDump.Postgres.Table != "orders" {
		t.Fatalf("expected pq detail, got %+v", pqDump.Postgres)
	}
}

func TestDumpStopsAtMaxDepth(t *testing.T) {
	var err error = stdErrors.New("root")
	for i := 0; i < maxChainDepth+5; i++ {
		err = fmt.Errorf("layer %d: %w", i, err)
	}
	if got := len(Dump(err).Chain); got != maxChainDepth {
		t.Fatalf("expected chain capped at %d, got %d", maxChainDepth, got)
	}
}
