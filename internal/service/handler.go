package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Fully qualified service names.
const (
	AuthServiceName   = "dutchpay.v1.AuthService"
	GroupServiceName  = "dutchpay.v1.GroupService"
	LedgerServiceName = "dutchpay.v1.LedgerService"
)

// Procedure returns the HTTP path of a method, e.g. "/dutchpay.v1.LedgerService/CreateExpense".
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

type route struct {
	procedure string
	handler   http.Handler
}

func unary[Req, Res any](service, method string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) route {
	procedure := Procedure(service, method)
	return route{procedure: procedure, handler: connect.NewUnaryHandler(procedure, fn, opts...)}
}

// mount serves routes under the service's path prefix.
func mount(service string, routes ...route) (string, http.Handler) {
	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.procedure, r.handler)
	}
	return "/" + service + "/", mux
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// NewAuthServiceHandler returns the path prefix and handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return mount(AuthServiceName,
		unary(AuthServiceName, "Register", svc.Register, opts),
		unary(AuthServiceName, "Login", svc.Login, opts),
		unary(AuthServiceName, "GetCurrentUser", svc.GetCurrentUser, opts),
	)
}

// NewGroupServiceHandler returns the path prefix and handler for GroupService.
func NewGroupServiceHandler(svc *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return mount(GroupServiceName,
		unary(GroupServiceName, "CreateGroup", svc.CreateGroup, opts),
		unary(GroupServiceName, "GetGroup", svc.GetGroup, opts),
		unary(GroupServiceName, "ListGroups", svc.ListGroups, opts),
		unary(GroupServiceName, "AddParticipant", svc.AddParticipant, opts),
		unary(GroupServiceName, "RemoveParticipant", svc.RemoveParticipant, opts),
		unary(GroupServiceName, "RegenerateInviteCode", svc.RegenerateInviteCode, opts),
		unary(GroupServiceName, "GetInviteGroup", svc.GetInviteGroup, opts),
		unary(GroupServiceName, "JoinGroup", svc.JoinGroup, opts),
		unary(GroupServiceName, "UpdatePaymentInfo", svc.UpdatePaymentInfo, opts),
	)
}

// NewLedgerServiceHandler returns the path prefix and handler for LedgerService.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return mount(LedgerServiceName,
		unary(LedgerServiceName, "CreateExpense", svc.CreateExpense, opts),
		unary(LedgerServiceName, "GetExpense", svc.GetExpense, opts),
		unary(LedgerServiceName, "UpdateExpense", svc.UpdateExpense, opts),
		unary(LedgerServiceName, "DeleteExpense", svc.DeleteExpense, opts),
		unary(LedgerServiceName, "MarkSharePaid", svc.MarkSharePaid, opts),
		unary(LedgerServiceName, "MarkObligationCompleted", svc.MarkObligationCompleted, opts),
		unary(LedgerServiceName, "GetGroupObligations", svc.GetGroupObligations, opts),
		unary(LedgerServiceName, "GetGroupExpenses", svc.GetGroupExpenses, opts),
		unary(LedgerServiceName, "GetSummary", svc.GetSummary, opts),
		unary(LedgerServiceName, "GetRanking", svc.GetRanking, opts),
	)
}
