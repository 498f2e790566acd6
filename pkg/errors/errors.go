// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// モデルダンプのデコードで発生する失敗を型付きエラーとして表現し、構造化ログに出力できる形にします。
package errors

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラはzerologのグローバルロガーに出力する
		event := zlog.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			event = event.Object("warning", m)
		}
		event.Msg(w.Error())
	}
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn は警告を発生させます。
// ハンドラはロックの外で呼ばれるため、ハンドラ内からWarnを呼んでも構いません。
func Warn(w error) {
	warningMutex.Lock()
	handler := warningHandler
	warningMutex.Unlock()

	if handler != nil {
		handler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// BaseScoreWarning はbase_scoreの変換結果が有限値にならなかった場合の警告です。
// 保存値が0または1のときlogit変換は±Infになります。
type BaseScoreWarning struct {
	Objective string
	Stored    float32
	Result    float64
}

func (w *BaseScoreWarning) Error() string {
	return fmt.Sprintf("base_score %g for objective %q transformed to non-finite margin %g", w.Stored, w.Objective, w.Result)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *BaseScoreWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("objective", w.Objective).
		Float32("stored", w.Stored).
		Float64("result", w.Result).
		Str("type", "BaseScoreWarning")
}

// NewBaseScoreWarning は新しいBaseScoreWarningを作成します。
func NewBaseScoreWarning(objective string, stored float32, result float64) *BaseScoreWarning {
	return &BaseScoreWarning{Objective: objective, Stored: stored, Result: result}
}

// ===========================================================================
//
//	モデルダンプのデコードエラー
//
// ===========================================================================

// FormatError はバイト列がダンプ形式に従っていない場合のエラーです。
// 読み込みがバッファ残量を超えた場合や、宣言された要素数が不正な場合に発生します。
type FormatError struct {
	Op        string // 失敗した読み込み（例: "read int32", "tree 3 node count"）
	Offset    int    // 読み込み開始位置（デコード後の構造検査では-1）
	Want      int    // 要求されたバイト数（不明な場合は0）
	Remaining int    // 残りバイト数
	Reason    string // 追加の説明
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("xgb: %s: %s", e.Op, e.Reason)
	}
	if e.Reason != "" {
		return fmt.Sprintf("xgb: %s at offset %d: %s", e.Op, e.Offset, e.Reason)
	}
	return fmt.Sprintf("xgb: %s at offset %d: need %d bytes, %d remaining", e.Op, e.Offset, e.Want, e.Remaining)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("offset", e.Offset).
		Int("want", e.Want).
		Int("remaining", e.Remaining).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError はバッファ不足によるFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(op string, offset, want, remaining int) error {
	err := &FormatError{Op: op, Offset: offset, Want: want, Remaining: remaining}
	return errors.WithStack(err)
}

// NewFormatErrorf は構造上の不整合を表すFormatErrorを作成し、スタックトレースを付与します。
func NewFormatErrorf(op string, offset int, format string, args ...interface{}) error {
	err := &FormatError{Op: op, Offset: offset, Reason: fmt.Sprintf(format, args...)}
	return errors.WithStack(err)
}

// UnsupportedBoosterError はbooster種別がgbtree以外の場合のエラーです。
type UnsupportedBoosterError struct {
	Booster string
}

func (e *UnsupportedBoosterError) Error() string {
	return fmt.Sprintf("xgb: %q booster is not supported, only gbtree models can be parsed", e.Booster)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnsupportedBoosterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("booster", e.Booster).
		Str("type", "UnsupportedBoosterError")
}

// NewUnsupportedBoosterError は新しいUnsupportedBoosterErrorを作成し、スタックトレースを付与します。
func NewUnsupportedBoosterError(booster string) error {
	return errors.WithStack(&UnsupportedBoosterError{Booster: booster})
}

// UnsupportedObjectiveError は目的関数の識別子がタスク分類表に存在しない場合のエラーです。
type UnsupportedObjectiveError struct {
	Objective string
}

func (e *UnsupportedObjectiveError) Error() string {
	return fmt.Sprintf("xgb: %q objective is not supported", e.Objective)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnsupportedObjectiveError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("objective", e.Objective).
		Str("type", "UnsupportedObjectiveError")
}

// NewUnsupportedObjectiveError は新しいUnsupportedObjectiveErrorを作成し、スタックトレースを付与します。
func NewUnsupportedObjectiveError(objective string) error {
	return errors.WithStack(&UnsupportedObjectiveError{Objective: objective})
}

// RangeError は要求されたイテレーション範囲がブースティングラウンド数の範囲外の場合のエラーです。
type RangeError struct {
	Start       int
	End         int
	TotalRounds int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("xgb: iteration range [%d, %d) is invalid, expected 0 <= start < end <= %d",
		e.Start, e.End, e.TotalRounds)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *RangeError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("start", e.Start).
		Int("end", e.End).
		Int("total_rounds", e.TotalRounds).
		Str("type", "RangeError")
}

// NewRangeError は新しいRangeErrorを作成し、スタックトレースを付与します。
func NewRangeError(start, end, totalRounds int) error {
	return errors.WithStack(&RangeError{Start: start, End: end, TotalRounds: totalRounds})
}

// ===========================================================================
//
//	汎用エラー型
//
// ===========================================================================

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("xgb: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("xgb: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
