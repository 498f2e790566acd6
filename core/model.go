package core

import "gonum.org/v1/gonum/mat"

// MarginPredictor は変換前のマージンを予測するモデルのインターフェース
type MarginPredictor interface {
	// PredictRaw は行ごと・出力ごとのマージンを返す
	PredictRaw(X mat.Matrix) (*mat.Dense, error)
}

// LeafPredictor は各木で到達した葉を返すモデルのインターフェース
type LeafPredictor interface {
	// PredictLeaf は行ごと・木ごとの葉ノード番号を返す
	PredictLeaf(X mat.Matrix) (*mat.Dense, error)
}

// TreeModel はデコード済みの木アンサンブルに対する予測インターフェース
type TreeModel interface {
	MarginPredictor
	LeafPredictor

	// NumFeatures は入力に必要な特徴量の数を返す
	NumFeatures() int
	// OutputDim はラウンドあたりの出力数を返す
	OutputDim() int
}
