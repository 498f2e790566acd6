// Package model はデコード済みモデルのスナップショットをJSONで保存・読み込みする機能を提供します。
package model

import (
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// SaveModel はモデルをJSONとしてファイルに保存する
//
// パラメータ:
//   - model: 保存する値（JSONタグ付きの構造体）
//   - filename: 保存先のファイルパス
//
// 使用例:
//
//	err := model.SaveModel(ensemble.Snapshot(), "model.json")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	if err := SaveModelToWriter(model, file); err != nil {
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// LoadModel はファイルからJSONモデルを読み込む
//
// パラメータ:
//   - model: 読み込み先（ポインタ）
//   - filename: 読み込み元のファイルパス
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
