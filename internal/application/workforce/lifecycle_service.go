package workforce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/lifecycle"
	"github.com/kitchenops/backend/internal/domain/shared"
	domain "github.com/kitchenops/backend/internal/domain/workforce"
	"go.uber.org/zap"
)

// LifecycleService governs workforce entity status transitions and the
// sentinel reassignment that keeps task references valid across deletes
type LifecycleService struct {
	roleRepo  domain.RoleRepository
	userRepo  domain.UserRepository
	taskRepo  domain.TaskRepository
	phaseRepo domain.PhaseRepository
	txManager shared.TransactionManager
	logger    *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	roleRepo domain.RoleRepository,
	userRepo domain.UserRepository,
	taskRepo domain.TaskRepository,
	phaseRepo domain.PhaseRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		phaseRepo: phaseRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateRole stores a new role
func (s *LifecycleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	role, err := domain.NewRole(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

// CreateUser stores a new user after checking the role exists
func (s *LifecycleService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if role.IsArchived() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cannot assign users to an archived role")
	}

	user, err := domain.NewUser(req.Name, req.Slug, req.Email, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// CreateTask stores a new task owned by an existing role. An omitted
// assignee or phase is pointed at that type's sentinel so the task row
// never carries a dangling reference.
func (s *LifecycleService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if role.IsArchived() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cannot create tasks for an archived role")
	}

	assigneeID := req.AssigneeID
	if assigneeID == uuid.Nil {
		sentinel, err := s.userRepo.FindSentinel(ctx)
		if err != nil {
			return nil, err
		}
		assigneeID = sentinel.ID
	}

	phaseID := req.PhaseID
	if phaseID == uuid.Nil {
		sentinel, err := s.phaseRepo.FindSentinel(ctx)
		if err != nil {
			return nil, err
		}
		phaseID = sentinel.ID
	}

	task, err := domain.NewTask(req.Title, req.RoleID, assigneeID, phaseID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// CreatePhase stores a new phase
func (s *LifecycleService) CreatePhase(ctx context.Context, req CreatePhaseRequest) (*PhaseResponse, error) {
	phase, err := domain.NewPhase(req.Name, req.Slug, req.Sequence)
	if err != nil {
		return nil, err
	}
	if err := s.phaseRepo.Create(ctx, phase); err != nil {
		return nil, err
	}
	resp := toPhaseResponse(phase)
	return &resp, nil
}

// TransitionRole applies a non-archiving transition to a role. Archive
// goes through ArchiveRole so reassignment always happens.
func (s *LifecycleService) TransitionRole(ctx context.Context, id uuid.UUID, transition string, caps ...lifecycle.Capability) (*RoleResponse, error) {
	tr, err := parseTransition(transition)
	if err != nil {
		return nil, err
	}
	if tr == lifecycle.TransitionArchive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Archive a role through the archive endpoint so its tasks are reassigned")
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := role.Transition(tr, caps...); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

// ArchiveRole archives a role after re-pointing every task and user
// that references it at the role sentinel, all in one transaction.
func (s *LifecycleService) ArchiveRole(ctx context.Context, id uuid.UUID) (*ArchiveResult, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Sentinel {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}

	sentinel, err := s.roleRepo.FindSentinel(ctx)
	if err != nil {
		return nil, err
	}

	result := &ArchiveResult{EntityID: id, SentinelID: sentinel.ID}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		tasks, err := s.taskRepo.ListByRole(ctx, id)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			task.ReassignRole(sentinel.ID, id)
			if err := s.taskRepo.Update(ctx, task); err != nil {
				return err
			}
		}
		result.ReassignedTasks = len(tasks)

		users, err := s.userRepo.ListByRole(ctx, id)
		if err != nil {
			return err
		}
		for _, user := range users {
			user.ReassignRole(sentinel.ID)
			if err := s.userRepo.Update(ctx, user); err != nil {
				return err
			}
		}
		result.ReassignedUsers = len(users)

		if err := role.Transition(lifecycle.TransitionArchive); err != nil {
			return err
		}
		return s.roleRepo.Update(ctx, role)
	})
	if err != nil {
		return nil, err
	}

	result.Status = string(role.Status)

	s.logger.Info("Role archived with reassignment",
		zap.String("role_id", id.String()),
		zap.String("sentinel_id", sentinel.ID.String()),
		zap.Int("reassigned_tasks", result.ReassignedTasks),
		zap.Int("reassigned_users", result.ReassignedUsers),
	)

	return result, nil
}

// TransitionUser applies a non-archiving transition to a user
func (s *LifecycleService) TransitionUser(ctx context.Context, id uuid.UUID, transition string, caps ...lifecycle.Capability) (*UserResponse, error) {
	tr, err := parseTransition(transition)
	if err != nil {
		return nil, err
	}
	if tr == lifecycle.TransitionArchive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Archive a user through the archive endpoint so their tasks are reassigned")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Transition(tr, caps...); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ArchiveUser archives a user after re-pointing their assigned tasks at
// the user sentinel in the same transaction
func (s *LifecycleService) ArchiveUser(ctx context.Context, id uuid.UUID) (*ArchiveResult, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Sentinel {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}

	sentinel, err := s.userRepo.FindSentinel(ctx)
	if err != nil {
		return nil, err
	}

	result := &ArchiveResult{EntityID: id, SentinelID: sentinel.ID}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		tasks, err := s.taskRepo.ListByAssignee(ctx, id)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			task.ReassignAssignee(sentinel.ID, id)
			if err := s.taskRepo.Update(ctx, task); err != nil {
				return err
			}
		}
		result.ReassignedTasks = len(tasks)

		if err := user.Transition(lifecycle.TransitionArchive); err != nil {
			return err
		}
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	result.Status = string(user.Status)
	return result, nil
}

// TransitionTask applies a lifecycle transition to a task
func (s *LifecycleService) TransitionTask(ctx context.Context, id uuid.UUID, transition string, caps ...lifecycle.Capability) (*TaskResponse, error) {
	tr, err := parseTransition(transition)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Transition(tr, caps...); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// RetirePhase retires a phase after re-pointing its scheduled tasks at
// the phase sentinel in the same transaction
func (s *LifecycleService) RetirePhase(ctx context.Context, id uuid.UUID) (*ArchiveResult, error) {
	phase, err := s.phaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if phase.Sentinel {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", "Sentinel records do not transition")
	}

	sentinel, err := s.phaseRepo.FindSentinel(ctx)
	if err != nil {
		return nil, err
	}

	result := &ArchiveResult{EntityID: id, SentinelID: sentinel.ID}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		tasks, err := s.taskRepo.ListByPhase(ctx, id)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			task.ReassignPhase(sentinel.ID, id)
			if err := s.taskRepo.Update(ctx, task); err != nil {
				return err
			}
		}
		result.ReassignedTasks = len(tasks)

		if err := phase.Retire(); err != nil {
			return err
		}
		return s.phaseRepo.Update(ctx, phase)
	})
	if err != nil {
		return nil, err
	}

	result.Status = "retired"
	return result, nil
}

// RestorePhase clears a phase's retirement timestamp
func (s *LifecycleService) RestorePhase(ctx context.Context, id uuid.UUID) (*PhaseResponse, error) {
	phase, err := s.phaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := phase.Restore(); err != nil {
		return nil, err
	}
	if err := s.phaseRepo.Update(ctx, phase); err != nil {
		return nil, err
	}
	resp := toPhaseResponse(phase)
	return &resp, nil
}

// EnsureSentinels creates the per-type sentinel records if missing.
// Safe to call on every boot: existing sentinels are left untouched.
func (s *LifecycleService) EnsureSentinels(ctx context.Context) error {
	role, err := s.roleRepo.FindSentinel(ctx)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		role = domain.NewSentinelRole()
		role.ClearDomainEvents()
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return err
		}
		s.logger.Info("Sentinel role created", zap.String("id", role.ID.String()))
	}

	user, err := s.userRepo.FindSentinel(ctx)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		user = domain.NewSentinelUser(role.ID)
		user.ClearDomainEvents()
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		s.logger.Info("Sentinel user created", zap.String("id", user.ID.String()))
	}

	phase, err := s.phaseRepo.FindSentinel(ctx)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		phase = domain.NewSentinelPhase()
		phase.ClearDomainEvents()
		if err := s.phaseRepo.Create(ctx, phase); err != nil {
			return err
		}
		s.logger.Info("Sentinel phase created", zap.String("id", phase.ID.String()))
	}

	// The sentinel task goes last: its assignee and phase columns
	// reference the user and phase sentinels
	if _, err := s.taskRepo.FindSentinel(ctx); err != nil {
		if !isNotFound(err) {
			return err
		}
		task := domain.NewSentinelTask(role.ID, user.ID, phase.ID)
		task.ClearDomainEvents()
		if err := s.taskRepo.Create(ctx, task); err != nil {
			return err
		}
		s.logger.Info("Sentinel task created", zap.String("id", task.ID.String()))
	}

	return nil
}

func parseTransition(value string) (lifecycle.Transition, error) {
	switch lifecycle.Transition(value) {
	case lifecycle.TransitionActivate, lifecycle.TransitionSuspend, lifecycle.TransitionPause,
		lifecycle.TransitionDeprecate, lifecycle.TransitionRetire, lifecycle.TransitionArchive,
		lifecycle.TransitionRestore:
		return lifecycle.Transition(value), nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown transition: "+value)
	}
}

func isNotFound(err error) bool {
	if errors.Is(err, shared.ErrNotFound) {
		return true
	}
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
