package model

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"ml-trading-bot/internal/interfaces"
	"ml-trading-bot/internal/types"
)

// Options configure how the serialized model is loaded.
type Options struct {
	// LibraryPath overrides the onnxruntime shared library location.
	LibraryPath string
	// InputName / OutputName override the graph tensor names.
	InputName  string
	OutputName string
}

var initOnce sync.Once
var initErr error

func initializeORT(libPath string) error {
	initOnce.Do(func() {
		if libPath == "" {
			libPath = defaultLibraryPath()
		}
		ort.SetSharedLibraryPath(libPath)
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

func defaultLibraryPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "/usr/lib/libonnxruntime.so"
	}
}

// Predictor runs an externally trained ONNX model over feature rows.
type Predictor struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

var _ interfaces.Model = (*Predictor)(nil)

// Load opens the serialized model at path. The runtime environment is
// initialized once per process.
func Load(path string, opts Options) (*Predictor, error) {
	if err := initializeORT(opts.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	inputName := opts.InputName
	if inputName == "" {
		inputName = "input"
	}
	outputName := opts.OutputName
	if outputName == "" {
		outputName = "output"
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}

	return &Predictor{session: session, inputName: inputName, outputName: outputName}, nil
}

// Predict returns one prediction per feature row, most recent last. An empty
// table yields an empty slice; interpreting that is the caller's problem.
func (p *Predictor) Predict(ctx context.Context, table types.FeatureTable) ([]float32, error) {
	rows := table.Len()
	if rows == 0 {
		return nil, nil
	}
	cols := len(table.Columns)

	data := make([]float32, 0, rows*cols)
	for _, row := range table.Rows {
		for _, v := range row {
			data = append(data, float32(v))
		}
	}

	input, err := ort.NewTensor(ort.NewShape(int64(rows), int64(cols)), data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := p.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	raw := out.GetData()
	if len(raw) == rows {
		preds := make([]float32, rows)
		copy(preds, raw)
		return preds, nil
	}
	// Per-class outputs: one score block per row, first column used.
	if len(raw) > 0 && len(raw)%rows == 0 {
		stride := len(raw) / rows
		preds := make([]float32, rows)
		for i := range preds {
			preds[i] = raw[i*stride]
		}
		return preds, nil
	}
	return nil, fmt.Errorf("output length %d does not align with %d input rows", len(raw), rows)
}

func (p *Predictor) Close() {
	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}
}
