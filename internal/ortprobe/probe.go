// Package ortprobe confirms runtime loadability of ONNX models by
// instantiating ONNX Runtime inference sessions through the shared
// library (CPU execution provider).
//
// The environment is process-wide: Init configures the shared library
// path and initializes the runtime at most once. When the library is not
// installed, Init fails with ErrUnavailable and every probe reports the
// same, which callers downgrade to a skipped check instead of a model
// failure.
package ortprobe

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ErrUnavailable indicates the onnxruntime shared library could not be
// loaded; model-level probes are impossible in this process.
var ErrUnavailable = errors.New("onnxruntime shared library unavailable")

// TensorInfo is the runtime-reported description of a session input or
// output. Dynamic dimensions are reported as -1.
type TensorInfo struct {
	Name     string
	Dims     []int64
	DataType string
}

// Shape renders the dims in the [1, 3, 640, 640] form with dynamic
// dimensions shown as "dynamic".
func (t TensorInfo) Shape() string {
	s := "["
	for i, dim := range t.Dims {
		if i > 0 {
			s += ", "
		}
		if dim > 0 {
			s += fmt.Sprintf("%d", dim)
		} else {
			s += "dynamic"
		}
	}
	return s + "]"
}

// Result holds everything a successful probe learned about a model.
type Result struct {
	Inputs      []TensorInfo
	Outputs     []TensorInfo
	Producer    string
	Version     int64
	Description string
}

var (
	mu          sync.Mutex
	initialized bool
	initErr     error
)

// Init loads the onnxruntime shared library and initializes the
// environment. libraryPath may be empty, in which case the
// ONNXRUNTIME_LIB_PATH environment variable and then a per-OS default
// location are tried. Init is idempotent; a failed first attempt is
// sticky for the process.
func Init(libraryPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}
	if initErr != nil {
		return initErr
	}

	if libraryPath == "" {
		libraryPath = defaultLibraryPath()
	}
	ort.SetSharedLibraryPath(libraryPath)

	if err := ort.InitializeEnvironment(); err != nil {
		initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		return initErr
	}
	initialized = true
	return nil
}

// Shutdown destroys the runtime environment. Safe to call when Init
// never succeeded.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		return
	}
	_ = ort.DestroyEnvironment()
	initialized = false
	initErr = nil
}

// Available reports whether the runtime environment is initialized.
func Available() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

func defaultLibraryPath() string {
	if path := os.Getenv("ONNXRUNTIME_LIB_PATH"); path != "" {
		return path
	}
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "darwin":
		return "/usr/local/lib/libonnxruntime.dylib"
	default:
		return "/usr/local/lib/libonnxruntime.so"
	}
}

// Run probes a model file: queries the runtime's view of the I/O
// contract, reads model metadata, and instantiates (then destroys) an
// inference session to confirm the model actually loads.
func Run(modelPath string) (*Result, error) {
	if !Available() {
		return nil, lastInitError()
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model I/O info: %w", err)
	}

	result := &Result{
		Inputs:  convertInfo(inputs),
		Outputs: convertInfo(outputs),
	}

	readMetadata(modelPath, result)

	if err := trySession(modelPath, inputs, outputs); err != nil {
		return nil, fmt.Errorf("session creation failed: %w", err)
	}
	return result, nil
}

func lastInitError() error {
	mu.Lock()
	defer mu.Unlock()
	if initErr != nil {
		return initErr
	}
	return ErrUnavailable
}

func convertInfo(infos []ort.InputOutputInfo) []TensorInfo {
	out := make([]TensorInfo, len(infos))
	for i, info := range infos {
		dims := make([]int64, len(info.Dimensions))
		copy(dims, info.Dimensions)
		out[i] = TensorInfo{
			Name:     info.Name,
			Dims:     dims,
			DataType: info.DataType.String(),
		}
	}
	return out
}

// readMetadata is best-effort: a model without metadata is still valid.
func readMetadata(modelPath string, result *Result) {
	metadata, err := ort.GetModelMetadata(modelPath)
	if err != nil {
		return
	}
	defer func() { _ = metadata.Destroy() }()

	if producer, err := metadata.GetProducerName(); err == nil {
		result.Producer = producer
	}
	if version, err := metadata.GetVersion(); err == nil {
		result.Version = version
	}
	if description, err := metadata.GetDescription(); err == nil {
		result.Description = description
	}
}

func trySession(modelPath string, inputs, outputs []ort.InputOutputInfo) error {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return err
	}
	defer func() { _ = options.Destroy() }()

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		infoNames(inputs), infoNames(outputs), options)
	if err != nil {
		return err
	}
	return session.Destroy()
}

func infoNames(infos []ort.InputOutputInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}
