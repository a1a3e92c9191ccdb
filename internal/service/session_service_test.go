package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

// newServiceTestDB 打开独立的内存库并迁移全部表
func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.Category{},
		&models.MenuItem{},
		&models.DiningSession{},
		&models.Diner{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AASplitDetail{},
		&models.PrintJob{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func seedServiceRestaurant(t *testing.T, db *gorm.DB) {
	t.Helper()
	restaurant := models.Restaurant{
		ID:     constants.DefaultRestaurantID,
		Name:   "测试餐厅",
		Status: "open",
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("create restaurant failed: %v", err)
	}
}

func seedServiceTable(t *testing.T, db *gorm.DB, tableNumber string) *models.Table {
	t.Helper()
	table := models.Table{
		RestaurantID: constants.DefaultRestaurantID,
		TableNumber:  tableNumber,
		Capacity:     4,
		TableType:    constants.TableTypeNormal,
		Status:       constants.TableStatusAvailable,
		QRCode:       "QR-" + tableNumber,
	}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	return &table
}

func seedServiceMenuItem(t *testing.T, db *gorm.DB, categoryID uint, name, price string) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		RestaurantID: constants.DefaultRestaurantID,
		CategoryID:   categoryID,
		Name:         name,
		Price:        models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		IsAvailable:  true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	return &item
}

func setupSessionServiceTest(t *testing.T, name string) (*SessionService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t, name)
	seedServiceRestaurant(t, db)
	sessionRepo := repository.NewSessionRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	return NewSessionService(sessionRepo, tableRepo, orderRepo, paymentRepo), db
}

func TestCreateSessionOccupiesTable(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_create")
	table := seedServiceTable(t, db, "A01")

	session, err := svc.CreateSession(CreateSessionInput{
		TableID:        table.ID,
		LeaderOpenID:   "openid-leader",
		LeaderNickname: "张三",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.Status != constants.SessionStatusActive {
		t.Fatalf("unexpected session status: %s", session.Status)
	}
	if len(session.Diners) != 1 || !session.Diners[0].IsLeader {
		t.Fatalf("expected single leader diner, got %+v", session.Diners)
	}

	var updatedTable models.Table
	if err := db.First(&updatedTable, table.ID).Error; err != nil {
		t.Fatalf("load table failed: %v", err)
	}
	if updatedTable.Status != constants.TableStatusOccupied {
		t.Fatalf("expected occupied table, got %s", updatedTable.Status)
	}
	if updatedTable.CurrentSessionID == nil || *updatedTable.CurrentSessionID != session.ID {
		t.Fatalf("table should reference session %s", session.ID)
	}
}

func TestCreateSessionOccupiedTableConflict(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_conflict")
	table := seedServiceTable(t, db, "A02")

	if _, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-first",
	}); err != nil {
		t.Fatalf("first create session failed: %v", err)
	}

	_, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-second",
	})
	if !errors.Is(err, ErrTableOccupied) {
		t.Fatalf("expected ErrTableOccupied, got %v", err)
	}

	var sessionCount int64
	if err := db.Model(&models.DiningSession{}).Count(&sessionCount).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if sessionCount != 1 {
		t.Fatalf("conflict must not create a session, count=%d", sessionCount)
	}
}

func TestJoinSessionIdempotent(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_join")
	table := seedServiceTable(t, db, "A03")

	session, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-leader",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	if _, err := svc.JoinSession(JoinSessionInput{
		SessionID: session.ID,
		OpenID:    "openid-guest",
		Nickname:  "李四",
	}); err != nil {
		t.Fatalf("join session failed: %v", err)
	}
	// 同一 openid 重复加入应幂等
	if _, err := svc.JoinSession(JoinSessionInput{
		SessionID: session.ID,
		OpenID:    "openid-guest",
		Nickname:  "李四",
	}); err != nil {
		t.Fatalf("second join should be idempotent: %v", err)
	}

	detail, err := svc.GetSessionDetail(session.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if len(detail.Diners) != 2 {
		t.Fatalf("expected 2 diners, got %d", len(detail.Diners))
	}
	if detail.TotalCustomers != 2 {
		t.Fatalf("expected total_customers 2, got %d", detail.TotalCustomers)
	}
}

func TestJoinClosedSessionRejected(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_closed_join")
	table := seedServiceTable(t, db, "A04")

	session, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-leader",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := svc.CloseSession(session.ID); err != nil {
		t.Fatalf("close session failed: %v", err)
	}

	_, err = svc.JoinSession(JoinSessionInput{SessionID: session.ID, OpenID: "openid-late"})
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCloseSessionFreesTable(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_close")
	table := seedServiceTable(t, db, "A05")

	session, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-leader",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	closed, err := svc.CloseSession(session.ID)
	if err != nil {
		t.Fatalf("close session failed: %v", err)
	}
	if closed.Status != constants.SessionStatusClosed {
		t.Fatalf("expected closed session, got %s", closed.Status)
	}

	var updatedTable models.Table
	if err := db.First(&updatedTable, table.ID).Error; err != nil {
		t.Fatalf("load table failed: %v", err)
	}
	if updatedTable.Status != constants.TableStatusAvailable {
		t.Fatalf("expected available table, got %s", updatedTable.Status)
	}
	if updatedTable.CurrentSessionID != nil {
		t.Fatalf("table session reference should be cleared")
	}

	// 重复关台幂等
	if _, err := svc.CloseSession(session.ID); err != nil {
		t.Fatalf("second close should be idempotent: %v", err)
	}
}

func TestSettleIfFullyPaid(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_settle")
	table := seedServiceTable(t, db, "A05")

	session, err := svc.CreateSession(CreateSessionInput{
		TableID:      table.ID,
		LeaderOpenID: "openid-settle",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	setAmounts := func(total, paid string) {
		t.Helper()
		totalMoney := decimal.RequireFromString(total)
		paidMoney := decimal.RequireFromString(paid)
		if err := db.Model(&models.DiningSession{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
			"total_amount": models.NewMoneyFromDecimal(totalMoney),
			"paid_amount":  models.NewMoneyFromDecimal(paidMoney),
		}).Error; err != nil {
			t.Fatalf("update amounts failed: %v", err)
		}
	}

	// 未结清不关台
	setAmounts("100.00", "60.00")
	got, err := svc.SettleIfFullyPaid(session.ID)
	if err != nil {
		t.Fatalf("settle check failed: %v", err)
	}
	if got.Status != constants.SessionStatusActive {
		t.Fatalf("underpaid session must stay active, got %s", got.Status)
	}

	// 零消费不关台
	setAmounts("0", "0")
	got, err = svc.SettleIfFullyPaid(session.ID)
	if err != nil {
		t.Fatalf("settle check failed: %v", err)
	}
	if got.Status != constants.SessionStatusActive {
		t.Fatalf("zero-total session must stay active, got %s", got.Status)
	}

	// 结清后自动关台并释放桌台
	setAmounts("100.00", "100.00")
	got, err = svc.SettleIfFullyPaid(session.ID)
	if err != nil {
		t.Fatalf("settle close failed: %v", err)
	}
	if got.Status != constants.SessionStatusClosed {
		t.Fatalf("fully paid session should be closed, got %s", got.Status)
	}

	var updatedTable models.Table
	if err := db.First(&updatedTable, table.ID).Error; err != nil {
		t.Fatalf("load table failed: %v", err)
	}
	if updatedTable.Status != constants.TableStatusAvailable {
		t.Fatalf("expected available table, got %s", updatedTable.Status)
	}

	// 已关台时再次结算不报错
	if _, err := svc.SettleIfFullyPaid(session.ID); err != nil {
		t.Fatalf("settle on closed session should be a no-op: %v", err)
	}
}

func TestCloseIdleSessions(t *testing.T) {
	svc, db := setupSessionServiceTest(t, "session_idle")
	staleTable := seedServiceTable(t, db, "A06")
	freshTable := seedServiceTable(t, db, "A07")

	stale, err := svc.CreateSession(CreateSessionInput{
		TableID:      staleTable.ID,
		LeaderOpenID: "openid-stale",
	})
	if err != nil {
		t.Fatalf("create stale session failed: %v", err)
	}
	fresh, err := svc.CreateSession(CreateSessionInput{
		TableID:      freshTable.ID,
		LeaderOpenID: "openid-fresh",
	})
	if err != nil {
		t.Fatalf("create fresh session failed: %v", err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := db.Model(&models.DiningSession{}).Where("id = ?", stale.ID).Updates(map[string]interface{}{
		"started_at": old,
		"updated_at": old,
	}).Error; err != nil {
		t.Fatalf("backdate session failed: %v", err)
	}

	closed, err := svc.CloseIdleSessions(30*time.Minute, time.Now())
	if err != nil {
		t.Fatalf("close idle sessions failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed session, got %d", closed)
	}

	var staleSession models.DiningSession
	if err := db.First(&staleSession, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("load stale session failed: %v", err)
	}
	if staleSession.Status != constants.SessionStatusClosed {
		t.Fatalf("stale session should be closed, got %s", staleSession.Status)
	}

	var freshSession models.DiningSession
	if err := db.First(&freshSession, "id = ?", fresh.ID).Error; err != nil {
		t.Fatalf("load fresh session failed: %v", err)
	}
	if freshSession.Status != constants.SessionStatusActive {
		t.Fatalf("fresh session must stay active, got %s", freshSession.Status)
	}

	var updatedTable models.Table
	if err := db.First(&updatedTable, staleTable.ID).Error; err != nil {
		t.Fatalf("load table failed: %v", err)
	}
	if updatedTable.Status != constants.TableStatusAvailable {
		t.Fatalf("expected released table, got %s", updatedTable.Status)
	}
}
