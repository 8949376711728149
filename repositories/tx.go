// Package repositories truy cập postgres qua gorm. Các hàm nhận ctx; nếu ctx đang mang một
// transaction (tạo bởi Transactor.WithinTx) thì truy vấn chạy trong transaction đó.
package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "propman/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
	pgSerialization      = "40001"
)

type txKey struct{}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx chạy fn trong một transaction; lồng nhau thì dùng lại transaction ngoài
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translateError(err)
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// forUpdate SELECT ... FOR UPDATE, khóa dòng đến hết transaction
func forUpdate(ctx context.Context, db *gorm.DB) *gorm.DB {
	return conn(ctx, db).Clauses(clause.Locking{Strength: "UPDATE"})
}

// translateError chuyển lỗi gorm/postgres sang các lỗi sentinel của ứng dụng
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrRecordNotFound) || errors.Is(err, apperrors.ErrOverlapViolation) ||
		errors.Is(err, apperrors.ErrDuplicateRecord) || apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", apperrors.ErrRecordNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation, pgSerialization:
			return fmt.Errorf("%w: %s", apperrors.ErrOverlapViolation, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateRecord, pgErr.ConstraintName)
		}
	}
	return err
}

// Page phân trang, page bắt đầu từ 0 như các API cũ
type Page struct {
	Page  int
	Limit int
}

// Normalized page âm về 0, limit mặc định 10, tối đa 100
func (p Page) Normalized() Page {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	p = p.Normalized()
	return q.Offset(p.Page * p.Limit).Limit(p.Limit)
}
