package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quadra_host_v1/internal/model"
)

func setupCourtTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Court{}, &model.UploadedAsset{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func testCourt(key string) *model.Court {
	return &model.Court{
		OwnerID:             1,
		SubmitKey:           key,
		Name:                "Quadra Central",
		Sport:               "tennis",
		Sports:              model.StringSlice{"tennis"},
		City:                "São Paulo",
		State:               "SP",
		PricePerHour:        180,
		WeekendPricePerHour: 198,
		IsActive:            true,
	}
}

func TestCourtRepo_Create(t *testing.T) {
	db := setupCourtTestDB(t)
	repo := NewCourtRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, testCourt("key-1"))
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("应分配主键")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Name != "Quadra Central" || got.WeekendPricePerHour != 198 {
		t.Errorf("字段不正确: %+v", got)
	}
}

func TestCourtRepo_CreateIdempotent(t *testing.T) {
	db := setupCourtTestDB(t)
	repo := NewCourtRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, testCourt("key-same"))
	if err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	// 同一幂等键重试，返回已有记录，不产生新行
	second, err := repo.Create(ctx, testCourt("key-same"))
	if err != nil {
		t.Fatalf("重试创建失败: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("重试应返回同一记录: %d != %d", second.ID, first.ID)
	}

	var count int64
	db.Model(&model.Court{}).Count(&count)
	if count != 1 {
		t.Errorf("球场行数不正确: %d", count)
	}
}

func TestCourtRepo_CreateValidation(t *testing.T) {
	db := setupCourtTestDB(t)
	repo := NewCourtRepository(db)
	ctx := context.Background()

	c := testCourt("key-v")
	c.Name = "Qd"
	if _, err := repo.Create(ctx, c); err == nil {
		t.Error("过短的名称应被拒绝")
	}

	c = testCourt("key-v2")
	c.Sport = ""
	if _, err := repo.Create(ctx, c); err == nil {
		t.Error("缺少运动项目应被拒绝")
	}
}

func TestCourtRepo_ListByOwner(t *testing.T) {
	db := setupCourtTestDB(t)
	repo := NewCourtRepository(db)
	ctx := context.Background()

	for _, key := range []string{"k1", "k2", "k3"} {
		c := testCourt(key)
		if key == "k3" {
			c.OwnerID = 2
		}
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("创建失败: %v", err)
		}
	}

	courts, total, err := repo.ListByOwner(ctx, 1, CourtFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 || len(courts) != 2 {
		t.Errorf("数量不正确: total=%d len=%d", total, len(courts))
	}

	// 城市筛选
	courts, total, err = repo.ListByOwner(ctx, 1, CourtFilter{City: "Campinas", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 0 {
		t.Errorf("城市筛选不正确: %d", total)
	}
}

func TestAssetRepo_AttachAndOrphans(t *testing.T) {
	db := setupCourtTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	a1 := &model.UploadedAsset{OwnerID: 1, StorageKey: "1/a.webp", PublicURL: "https://cdn/a.webp"}
	a2 := &model.UploadedAsset{OwnerID: 1, StorageKey: "1/b.webp", PublicURL: "https://cdn/b.webp"}
	if err := repo.Record(ctx, a1); err != nil {
		t.Fatalf("登记失败: %v", err)
	}
	if err := repo.Record(ctx, a2); err != nil {
		t.Fatalf("登记失败: %v", err)
	}

	if err := repo.AttachToCourt(ctx, []string{"https://cdn/a.webp"}, 7); err != nil {
		t.Fatalf("挂接失败: %v", err)
	}

	// 把两条都放进孤儿判定窗口
	db.Model(&model.UploadedAsset{}).Where("1 = 1").Update("created_at", time.Now().Add(-48*time.Hour))

	orphans, err := repo.FindOrphans(ctx, time.Now().Add(-24*time.Hour), 10)
	if err != nil {
		t.Fatalf("查询孤儿失败: %v", err)
	}
	if len(orphans) != 1 || orphans[0].StorageKey != "1/b.webp" {
		t.Errorf("孤儿判定不正确: %+v", orphans)
	}
}
