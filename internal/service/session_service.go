package service

import (
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"

	"gorm.io/gorm"
)

// SessionService 就餐会话服务
type SessionService struct {
	sessionRepo repository.SessionRepository
	tableRepo   repository.TableRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

// NewSessionService 创建就餐会话服务
func NewSessionService(sessionRepo repository.SessionRepository, tableRepo repository.TableRepository, orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		tableRepo:   tableRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

// CreateSessionInput 开台输入
type CreateSessionInput struct {
	TableID        uint
	LeaderOpenID   string
	LeaderNickname string
	TotalCustomers int
}

// CreateSession 扫码开台：占用餐桌并创建会话与发起成员，整体原子完成
func (s *SessionService) CreateSession(input CreateSessionInput) (*models.DiningSession, error) {
	table, err := s.tableRepo.GetByID(input.TableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	if table.Status != constants.TableStatusAvailable {
		return nil, ErrTableOccupied
	}

	now := time.Now()
	totalCustomers := input.TotalCustomers
	if totalCustomers < 1 {
		totalCustomers = 1
	}
	session := models.DiningSession{
		ID:             models.NewPrefixedID("SS"),
		RestaurantID:   table.RestaurantID,
		TableID:        table.ID,
		LeaderOpenID:   input.LeaderOpenID,
		LeaderNickname: input.LeaderNickname,
		TotalCustomers: totalCustomers,
		Status:         constants.SessionStatusActive,
		StartedAt:      now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		tableRepo := s.tableRepo.WithTx(tx)
		sessionRepo := s.sessionRepo.WithTx(tx)

		// 事务内复核桌态，防止并发开台
		current, err := tableRepo.GetByID(table.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrTableNotFound
		}
		if current.Status != constants.TableStatusAvailable {
			return ErrTableOccupied
		}

		if err := sessionRepo.Create(&session); err != nil {
			return err
		}
		if err := tableRepo.UpdateFields(table.ID, map[string]interface{}{
			"status":             constants.TableStatusOccupied,
			"current_session_id": session.ID,
			"updated_at":         now,
		}); err != nil {
			return err
		}
		leader := models.Diner{
			SessionID:    session.ID,
			OpenID:       input.LeaderOpenID,
			Nickname:     input.LeaderNickname,
			IsLeader:     true,
			JoinedAt:     now,
			LastActiveAt: now,
		}
		return sessionRepo.CreateDiner(&leader)
	})
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetDetail(session.ID)
}

// JoinSessionInput 加入会话输入
type JoinSessionInput struct {
	SessionID string
	OpenID    string
	Nickname  string
	AvatarURL string
}

// JoinSession 加入会话。同一 openid 重复加入幂等返回既有成员。
func (s *SessionService) JoinSession(input JoinSessionInput) (*models.Diner, error) {
	session, err := s.sessionRepo.GetByID(input.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != constants.SessionStatusActive {
		return nil, ErrSessionClosed
	}

	now := time.Now()
	existing, err := s.sessionRepo.GetDiner(session.ID, input.OpenID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.sessionRepo.TouchDiner(session.ID, input.OpenID, now); err != nil {
			return nil, err
		}
		existing.LastActiveAt = now
		return existing, nil
	}

	diner := models.Diner{
		SessionID:    session.ID,
		OpenID:       input.OpenID,
		Nickname:     input.Nickname,
		AvatarURL:    input.AvatarURL,
		JoinedAt:     now,
		LastActiveAt: now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		sessionRepo := s.sessionRepo.WithTx(tx)
		if err := sessionRepo.CreateDiner(&diner); err != nil {
			return err
		}
		// 就餐人数按成员行数重算
		count, err := sessionRepo.CountDiners(session.ID)
		if err != nil {
			return err
		}
		return sessionRepo.UpdateFields(session.ID, map[string]interface{}{
			"total_customers": count,
			"updated_at":      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &diner, nil
}

// GetSessionDetail 获取会话详情（含餐桌、成员与订单）
func (s *SessionService) GetSessionDetail(sessionID string) (*models.DiningSession, error) {
	session, err := s.sessionRepo.GetDetail(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// RequireActiveDiner 校验成员归属于进行中的会话
func (s *SessionService) RequireActiveDiner(sessionID, openid string) (*models.DiningSession, *models.Diner, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}
	if session.Status != constants.SessionStatusActive {
		return nil, nil, ErrSessionClosed
	}
	diner, err := s.sessionRepo.GetDiner(sessionID, openid)
	if err != nil {
		return nil, nil, err
	}
	if diner == nil {
		return nil, nil, ErrDinerNotInSession
	}
	return session, diner, nil
}

// CloseSession 结账关台：会话置为结束并释放餐桌
func (s *SessionService) CloseSession(sessionID string) (*models.DiningSession, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status == constants.SessionStatusClosed {
		return session, nil
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		sessionRepo := s.sessionRepo.WithTx(tx)
		tableRepo := s.tableRepo.WithTx(tx)

		if err := sessionRepo.UpdateFields(session.ID, map[string]interface{}{
			"status":     constants.SessionStatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}); err != nil {
			return err
		}
		return tableRepo.UpdateFields(session.TableID, map[string]interface{}{
			"status":             constants.TableStatusAvailable,
			"current_session_id": nil,
			"updated_at":         now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(session.ID)
}

// List 查询会话列表
func (s *SessionService) List(filter repository.SessionListFilter) ([]models.DiningSession, int64, error) {
	return s.sessionRepo.List(filter)
}

// SettleIfFullyPaid 款项结清后自动关台，未结清或已结束时不做变更
func (s *SessionService) SettleIfFullyPaid(sessionID string) (*models.DiningSession, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status == constants.SessionStatusClosed {
		return session, nil
	}
	if session.TotalAmount.IsZero() || session.PaidAmount.Cmp(session.TotalAmount.Decimal) < 0 {
		return session, nil
	}
	return s.CloseSession(sessionID)
}

// CloseIdleSessions 关闭超过空闲时长仍未结账的会话，返回关闭数量
func (s *SessionService) CloseIdleSessions(idleAfter time.Duration, now time.Time) (int, error) {
	sessions, _, err := s.sessionRepo.List(repository.SessionListFilter{
		Page:     1,
		PageSize: 500,
		Status:   constants.SessionStatusActive,
	})
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-idleAfter)
	closed := 0
	for i := range sessions {
		last := sessions[i].UpdatedAt
		if last.Before(sessions[i].StartedAt) {
			last = sessions[i].StartedAt
		}
		if last.After(cutoff) {
			continue
		}
		if _, err := s.CloseSession(sessions[i].ID); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

// recomputeSessionAmounts 在事务内按来源重算会话金额。
// total_amount 为未取消订单之和，subtotal 为已上菜订单之和，
// paid_amount 为成功支付之和，避免增量累计漂移。
func recomputeSessionAmounts(tx *gorm.DB, orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, sessionID string, now time.Time) error {
	orders := orderRepo.WithTx(tx)
	payments := paymentRepo.WithTx(tx)

	total, err := orders.SumSessionAmount(sessionID, []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusServed,
	})
	if err != nil {
		return err
	}
	subtotal, err := orders.SumSessionAmount(sessionID, []string{constants.OrderStatusServed})
	if err != nil {
		return err
	}
	paid, err := payments.SumSessionPaid(sessionID, []string{constants.PaymentStatusSuccess})
	if err != nil {
		return err
	}

	db := models.DB
	if tx != nil {
		db = tx
	}
	return db.Model(&models.DiningSession{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"total_amount": total,
		"subtotal":     subtotal,
		"paid_amount":  paid,
		"updated_at":   now,
	}).Error
}
