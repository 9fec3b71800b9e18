// Package model はドメインモデルを定義する。
package model

import (
	"math"
	"time"
)

// LoanStatus はAPIが返す貸出ステータスを表す。
type LoanStatus string

const (
	// LoanStatusBorrowed は貸出中ステータス。
	LoanStatusBorrowed LoanStatus = "BORROWED"
	// LoanStatusReturned は返却済みステータス。
	LoanStatusReturned LoanStatus = "RETURNED"
	// LoanStatusOverdue は延滞ステータス。
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

// Loan は /api/loans/my が返す貸出レコードを表す。
// bookを含む全てのネストフィールドは欠落しうる。
type Loan struct {
	ID         int        `json:"id"`
	Book       *Book      `json:"book,omitempty"`
	Status     LoanStatus `json:"status,omitempty"`
	BorrowedAt string     `json:"borrowedAt,omitempty"`
	DueAt      string     `json:"dueAt,omitempty"`
	ReturnedAt string     `json:"returnedAt,omitempty"`
	CreatedAt  string     `json:"createdAt,omitempty"`
}

// BorrowedBook は貸出レコードを表示用に展開した形。
// 欠落フィールドは既定値で補完される。
type BorrowedBook struct {
	LoanID     int
	BookID     int
	Title      string
	Category   string
	Image      string
	Status     string // "Active" / "Returned" / "Overdue"
	BorrowDate time.Time
	DueDate    time.Time
	Duration   int // 日数
}

// DisplayStatus はAPIステータスを表示用ステータスに変換する。
// BORROWED以外かつRETURNED以外は全てOverdue扱いとする。
func (s LoanStatus) DisplayStatus() string {
	switch s {
	case LoanStatusBorrowed:
		return "Active"
	case LoanStatusReturned:
		return "Returned"
	default:
		return "Overdue"
	}
}

// ToBorrowedBook は貸出レコードを表示用に変換する。
// 書籍情報が欠落している場合は既定値を補完する。
func (l *Loan) ToBorrowedBook() BorrowedBook {
	b := BorrowedBook{
		LoanID: l.ID,
		Title:  "Unknown Title",
		Status: l.Status.DisplayStatus(),
	}

	if l.Book != nil {
		b.BookID = l.Book.ID
		if l.Book.Title != "" {
			b.Title = l.Book.Title
		}
		b.Image = l.Book.CoverImage
	}
	if l.Book != nil {
		b.Category = l.Book.CategoryName()
	} else {
		b.Category = "General"
	}

	borrowed, errB := time.Parse(time.RFC3339, l.BorrowedAt)
	due, errD := time.Parse(time.RFC3339, l.DueAt)
	if errB == nil {
		b.BorrowDate = borrowed
	}
	if errD == nil {
		b.DueDate = due
	}
	if errB == nil && errD == nil {
		b.Duration = int(math.Ceil(due.Sub(borrowed).Hours() / 24))
	}

	return b
}
