package jobs

import (
	"context"
	"time"

	"propman/config"
	"propman/services/logger"

	"github.com/robfig/cron/v3"
)

// BookingCompleter trả phòng các booking đã hết hạn lưu trú
type BookingCompleter interface {
	CompleteFinished(ctx context.Context, now time.Time) (int, error)
}

// TenancyExpirer kết thúc các hợp đồng đã qua ngày kết thúc
type TenancyExpirer interface {
	ExpireEnded(ctx context.Context, now time.Time) (int, error)
}

// InvoiceRunner lập hóa đơn tháng và đánh dấu quá hạn
type InvoiceRunner interface {
	GenerateMonthly(ctx context.Context, now time.Time) (int, error)
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

type Runners struct {
	Bookings  BookingCompleter
	Tenancies TenancyExpirer
	Invoices  InvoiceRunner
}

// job một tác vụ định kỳ trả về số bản ghi đã xử lý
type job struct {
	name string
	spec string
	run  func(ctx context.Context, now time.Time) (int, error)
}

func jobsFor(cfg config.CronConfig, r Runners) []job {
	return []job{
		{name: "complete-bookings", spec: cfg.Bookings, run: r.Bookings.CompleteFinished},
		{name: "expire-tenancies", spec: cfg.Tenancy, run: r.Tenancies.ExpireEnded},
		{name: "generate-invoices", spec: cfg.Invoices, run: r.Invoices.GenerateMonthly},
		{name: "mark-overdue", spec: cfg.Overdue, run: r.Invoices.MarkOverdue},
	}
}

// InitCronJobs đăng ký các cron job; spec rỗng thì bỏ qua job đó
func InitCronJobs(c *cron.Cron, cfg config.CronConfig, r Runners, log logger.Logger) error {
	for _, j := range jobsFor(cfg, r) {
		if j.spec == "" {
			log.Warn("Bỏ qua cron job %s: chưa cấu hình lịch", j.name)
			continue
		}
		if _, err := c.AddFunc(j.spec, wrap(j, log, time.Now)); err != nil {
			return err
		}
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}

func wrap(j job, log logger.Logger, now func() time.Time) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		start := now()
		n, err := j.run(ctx, start)
		if err != nil {
			log.Error("Cron job %s thất bại: %v", j.name, err)
			return
		}
		log.Info("Cron job %s xử lý %d bản ghi trong %v", j.name, n, time.Since(start))
	}
}
