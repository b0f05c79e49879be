package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/registry"
	"github.com/mmynk/dutchpay/internal/storage"
)

// GroupService implements dutchpay.v1.GroupService.
type GroupService struct {
	registry *registry.Registry
	users    storage.Reader
}

// NewGroupService creates a GroupService. users resolves the caller's account.
func NewGroupService(reg *registry.Registry, users storage.Reader) *GroupService {
	return &GroupService{registry: reg, users: users}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "participants_count", len(req.Msg.Participants))

	group, participants, err := s.registry.CreateGroup(ctx, user, req.Msg.Name, req.Msg.Icon, req.Msg.Participants)
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GroupResponse{Group: toGroup(group), Participants: toParticipants(participants)}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GroupResponse], error) {
	if _, err := s.member(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}
	group, participants, err := s.registry.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GroupResponse{Group: toGroup(group), Participants: toParticipants(participants)}), nil
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, _ *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	groups, err := s.registry.ListGroups(ctx, user.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListGroupsResponse{Groups: make([]Group, len(groups))}
	for i, g := range groups {
		resp.Groups[i] = toGroup(g)
	}
	return connect.NewResponse(resp), nil
}

// AddParticipant adds an unclaimed participant to the caller's group.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	if _, err := s.member(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}
	p, err := s.registry.AddParticipant(ctx, req.Msg.GroupID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Participant added", "group_id", p.GroupID, "participant_id", p.ID)
	return connect.NewResponse(&ParticipantResponse{Participant: toParticipant(p)}), nil
}

// RemoveParticipant deletes an unused participant. Admins only.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	target, err := s.registry.GetParticipant(ctx, req.Msg.ParticipantID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.admin(ctx, target.GroupID); err != nil {
		return nil, err
	}
	if err := s.registry.RemoveParticipant(ctx, target.ID); err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Participant removed", "group_id", target.GroupID, "participant_id", target.ID)
	return connect.NewResponse(&RemoveParticipantResponse{}), nil
}

// RegenerateInviteCode replaces the group's invite code. Admins only.
func (s *GroupService) RegenerateInviteCode(ctx context.Context, req *connect.Request[RegenerateInviteCodeRequest]) (*connect.Response[RegenerateInviteCodeResponse], error) {
	if _, err := s.admin(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}
	code, err := s.registry.RegenerateInviteCode(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RegenerateInviteCodeResponse{InviteCode: code}), nil
}

// GetInviteGroup previews the group behind an invite code so the caller can
// pick a participant to claim.
func (s *GroupService) GetInviteGroup(ctx context.Context, req *connect.Request[GetInviteGroupRequest]) (*connect.Response[GroupResponse], error) {
	if _, err := currentUser(ctx, s.users); err != nil {
		return nil, err
	}
	group, participants, err := s.registry.GetGroupByInviteCode(ctx, req.Msg.InviteCode)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GroupResponse{Group: toGroup(group), Participants: toParticipants(participants)}), nil
}

// JoinGroup joins the caller to the group behind an invite code.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	p, err := s.registry.JoinGroup(ctx, user, req.Msg.InviteCode, req.Msg.ParticipantID, req.Msg.ParticipantName)
	if err != nil {
		return nil, toConnectError(err)
	}
	group, _, err := s.registry.GetGroup(ctx, p.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&JoinGroupResponse{Group: toGroup(group), Participant: toParticipant(p)}), nil
}

// UpdatePaymentInfo sets a participant's payment details. Callers may update
// their own participant; admins may update anyone in their group.
func (s *GroupService) UpdatePaymentInfo(ctx context.Context, req *connect.Request[UpdatePaymentInfoRequest]) (*connect.Response[ParticipantResponse], error) {
	target, err := s.registry.GetParticipant(ctx, req.Msg.ParticipantID)
	if err != nil {
		return nil, toConnectError(err)
	}
	caller, err := s.member(ctx, target.GroupID)
	if err != nil {
		return nil, err
	}
	if caller.ID != target.ID && !caller.IsAdmin {
		return nil, toConnectError(fmt.Errorf("%w: cannot edit another participant's payment info", models.ErrUnauthorized))
	}

	p, err := s.registry.UpdatePaymentInfo(ctx, target.ID, models.PaymentMethod(req.Msg.PaymentMethod), req.Msg.PaymentAccount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{Participant: toParticipant(p)}), nil
}

// member returns the caller's participant in groupID.
func (s *GroupService) member(ctx context.Context, groupID string) (*models.Participant, error) {
	return authorize(ctx, s.registry, s.users, groupID)
}

// admin returns the caller's participant in groupID if it is an admin.
func (s *GroupService) admin(ctx context.Context, groupID string) (*models.Participant, error) {
	p, err := s.member(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin {
		return nil, toConnectError(fmt.Errorf("%w: admin only", models.ErrUnauthorized))
	}
	return p, nil
}

// authorize resolves the caller and requires membership of groupID.
func authorize(ctx context.Context, reg *registry.Registry, users storage.Reader, groupID string) (*models.Participant, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	user, err := currentUser(ctx, users)
	if err != nil {
		return nil, err
	}
	p, err := reg.Authorize(ctx, groupID, user.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return p, nil
}
