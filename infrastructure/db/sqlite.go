package db

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/history"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// HistoryRepository implements history.Store on SQLite
type HistoryRepository struct {
	db *gorm.DB
}

// HistoryEntryModel is the GORM model for a history entry
type HistoryEntryModel struct {
	ID        uint   `gorm:"primaryKey"`
	Data      string `gorm:"not null"`
	Type      string `gorm:"not null;size:16"`
	Timestamp string `gorm:"not null"`
	CreatedAt time.Time
}

// TableName pins the table name
func (HistoryEntryModel) TableName() string {
	return "history_entries"
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewHistoryRepository opens (or creates) the SQLite database at dbPath
func NewHistoryRepository(ctx context.Context, dbPath string) (*HistoryRepository, error) {
	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			appLogger.CtxError(ctx, "Failed to create database directory", appLogger.LoggerInfo{
				ContextFunction: constant.CtxDB,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeDBOpen,
					Message: err.Error(),
					Type:    constant.ErrTypeDB,
				},
				Data: map[string]interface{}{
					constant.DataPath: dbPath,
				},
			})
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&HistoryEntryModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &HistoryRepository{db: db}, nil
}

// Append inserts entry and deletes everything older than the newest
// history.MaxEntries rows in the same transaction
func (r *HistoryRepository) Append(ctx context.Context, entry history.Entry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := HistoryEntryModel{
			Data:      entry.Data,
			Type:      entry.Type,
			Timestamp: entry.Timestamp,
		}
		if err := tx.Create(&model).Error; err != nil {
			appLogger.CtxError(ctx, "Failed to insert history entry", appLogger.LoggerInfo{
				ContextFunction: constant.CtxAppend,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeDBInsert,
					Message: err.Error(),
					Type:    constant.ErrTypeDB,
				},
				Data: map[string]interface{}{
					constant.DataKind: entry.Type,
				},
			})
			return err
		}

		result := tx.Exec(`DELETE FROM history_entries WHERE id NOT IN (SELECT id FROM history_entries ORDER BY id DESC LIMIT ?)`, history.MaxEntries)
		if result.Error != nil {
			appLogger.CtxError(ctx, "Failed to trim history", appLogger.LoggerInfo{
				ContextFunction: constant.CtxAppend,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeDBTrim,
					Message: result.Error.Error(),
					Type:    constant.ErrTypeDB,
				},
			})
			return result.Error
		}

		appLogger.CtxDebug(ctx, "History entry stored", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAppend,
			Data: map[string]interface{}{
				constant.DataKind:         entry.Type,
				constant.DataRowsAffected: result.RowsAffected,
			},
		})
		return nil
	})
	if err != nil {
		return &history.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// Load returns the newest history.MaxEntries entries, newest first
func (r *HistoryRepository) Load(ctx context.Context) ([]history.Entry, error) {
	var models []HistoryEntryModel
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(history.MaxEntries).
		Find(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Failed to load history", appLogger.LoggerInfo{
			ContextFunction: constant.CtxLoad,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, &history.PersistenceError{Op: "load", Err: err}
	}

	entries := make([]history.Entry, 0, len(models))
	for _, m := range models {
		entries = append(entries, history.Entry{
			Data:      m.Data,
			Type:      m.Type,
			Timestamp: m.Timestamp,
		})
	}
	return entries, nil
}

// Clear deletes every history row
func (r *HistoryRepository) Clear(ctx context.Context) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM history_entries`)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to clear history", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClear,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClear,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return &history.PersistenceError{Op: "clear", Err: result.Error}
	}

	appLogger.CtxInfo(ctx, "History table cleared", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClear,
		Data: map[string]interface{}{
			constant.DataRowsAffected: result.RowsAffected,
		},
	})
	return nil
}

// Close closes the database connection
func (r *HistoryRepository) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
