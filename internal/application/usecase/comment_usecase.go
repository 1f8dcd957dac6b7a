package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// notifyTimeout tiempo máximo del envío de notificaciones en segundo plano.
const notifyTimeout = 15 * time.Second

// CommentUseCase comentarios sobre comidas planificadas.
type CommentUseCase struct {
	commentRepo  repository.CommentRepository
	mealPlanRepo repository.MealPlanRepository
	familyRepo   repository.FamilyRepository
	notifier     ports.Notifier // nil = sin notificaciones
	log          *logger.Logger
	now          func() time.Time
	pending      sync.WaitGroup
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(
	commentRepo repository.CommentRepository,
	mealPlanRepo repository.MealPlanRepository,
	familyRepo repository.FamilyRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *CommentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CommentUseCase{
		commentRepo:  commentRepo,
		mealPlanRepo: mealPlanRepo,
		familyRepo:   familyRepo,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// List lista los comentarios de una comida visible para el usuario.
func (uc *CommentUseCase) List(ctx context.Context, user *entity.User, mealPlanID string) ([]dto.CommentResponse, error) {
	plan, err := uc.visiblePlan(ctx, user, mealPlanID)
	if err != nil {
		return nil, err
	}
	comments, err := uc.commentRepo.ListByMealPlan(ctx, plan.ID, repository.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

// Create agrega un comentario y avisa por e-mail a los adultos de la familia que lo tengan habilitado.
func (uc *CommentUseCase) Create(ctx context.Context, user *entity.User, mealPlanID string, in dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if !user.Role.CanComment() {
		return nil, domain.ErrForbidden
	}
	text := strings.TrimSpace(in.Comment)
	if text == "" || len([]rune(text)) > entity.MaxCommentLength {
		return nil, domain.ErrInvalidInput
	}
	plan, err := uc.visiblePlan(ctx, user, mealPlanID)
	if err != nil {
		return nil, err
	}
	comment := &entity.MealComment{
		ID:         uuid.New().String(),
		MealPlanID: plan.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		FamilyID:   plan.FamilyID,
		Comment:    text,
		Emoji:      strings.TrimSpace(in.Emoji),
		CreatedAt:  uc.now(),
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	if uc.notifier != nil && plan.FamilyID != "" {
		uc.pending.Add(1)
		go func() {
			defer uc.pending.Done()
			uc.notify(user, plan, comment)
		}()
	}
	out := toCommentResponse(comment)
	return &out, nil
}

// Delete elimina un comentario; puede hacerlo su autor o un adulto de la familia.
func (uc *CommentUseCase) Delete(ctx context.Context, user *entity.User, mealPlanID, commentID string) error {
	if !validID(commentID) || !validID(mealPlanID) {
		return domain.ErrNotFound
	}
	scope := repository.ScopeFor(user)
	comment, err := uc.commentRepo.GetByID(ctx, commentID, scope)
	if err != nil {
		return err
	}
	if comment == nil || comment.MealPlanID != mealPlanID {
		return domain.ErrNotFound
	}
	if comment.UserID != user.ID && !canEdit(user) {
		return domain.ErrForbidden
	}
	deleted, err := uc.commentRepo.Delete(ctx, commentID, scope)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Wait espera a que terminen las notificaciones en curso o a que venza ctx.
func (uc *CommentUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *CommentUseCase) notify(author *entity.User, plan *entity.MealPlan, comment *entity.MealComment) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	members, err := uc.familyRepo.ListMembers(ctx, plan.FamilyID)
	if err != nil {
		uc.log.Error().Err(err).Str("meal_plan_id", plan.ID).Msg("listar miembros para notificación")
		return
	}
	n := ports.MealCommentNotification{
		AuthorName: author.Name,
		Fecha:      plan.Fecha.Format(entity.DateLayout),
		TipoComida: string(plan.TipoComida),
		Comment:    comment.Comment,
		Emoji:      comment.Emoji,
	}
	if plan.Recipe != nil {
		n.RecipeName = plan.Recipe.Name
	}
	for _, m := range members {
		if m.UserID == author.ID || !m.Role.CanEdit() {
			continue
		}
		if !m.Notifications.Email || !m.Notifications.MealComments {
			continue
		}
		n.Recipients = append(n.Recipients, ports.Recipient{Email: m.Email, Name: m.Name})
	}
	if len(n.Recipients) == 0 {
		return
	}
	if err := uc.notifier.NotifyMealComment(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("meal_plan_id", plan.ID).Msg("notificación de comentario no enviada")
	}
}

func (uc *CommentUseCase) visiblePlan(ctx context.Context, user *entity.User, mealPlanID string) (*entity.MealPlan, error) {
	if !validID(mealPlanID) {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.mealPlanRepo.GetByID(ctx, mealPlanID, repository.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func toCommentResponse(c *entity.MealComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID,
		MealPlanID: c.MealPlanID,
		UserID:     c.UserID,
		UserName:   c.UserName,
		Comment:    c.Comment,
		Emoji:      c.Emoji,
		CreatedAt:  c.CreatedAt,
	}
}
