// speech-addon 在命令行中访问 rawfile 资源、读取 WAV，或执行调用绑定函数的脚本
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/getcharzp/speech-addon"
	"github.com/getcharzp/speech-addon/binding"
	"github.com/getcharzp/speech-addon/rawfile"
	"github.com/getcharzp/speech-addon/wave"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `用法: speech-addon [flags] <command> [args]

命令:
  ls [path]          递归列出 rawfile
  cat <name>         输出 rawfile 内容
  wave <file>        打印 WAV 信息 (--from-rawfile 时从资源中读取)
  run <script.js>    执行脚本, 全局变量 mgr 为资源管理器
`

var errUsage = errors.New("invalid usage")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	log.Fatal(err)
}

type options struct {
	cfg         addon.Config
	fromRawfile bool
	resample    int
	output      string
}

func parseArgs(args []string) (*options, []string, error) {
	fs := pflag.NewFlagSet("speech-addon", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFile  = fs.StringP("config", "c", "config.yaml", "配置文件路径")
		hapPath     = fs.String("hap", "", "应用包 (.hap) 路径")
		rawfileDir  = fs.StringP("dir", "d", "", "本地 rawfile 目录")
		rawfileRoot = fs.String("root", "", "应用包内 rawfile 根目录")
		logLevel    = fs.String("log-level", "", "日志级别 (debug, info, warn, error)")
		external    = fs.Bool("external-buffer", true, "readWave 默认共享采样内存")
		fromRawfile = fs.Bool("from-rawfile", false, "wave 命令从 rawfile 中读取")
		resample    = fs.Int("resample", 0, "wave 命令重采样到指定采样率")
		output      = fs.StringP("output", "o", "", "wave 命令输出 WAV 文件路径")
	)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg, err := addon.LoadConfig(*configFile)
	if err != nil {
		return nil, nil, err
	}
	if fs.Changed("hap") {
		cfg.HapPath = *hapPath
	}
	if fs.Changed("dir") {
		cfg.RawfileDir = *rawfileDir
	}
	if fs.Changed("root") {
		cfg.RawfileRoot = *rawfileRoot
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("external-buffer") {
		cfg.ExternalBuffer = *external
	}

	opts := &options{
		cfg:         cfg,
		fromRawfile: *fromRawfile,
		resample:    *resample,
		output:      *output,
	}
	return opts, fs.Args(), nil
}

func run(args []string, out io.Writer) error {
	opts, rest, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	logger, err := addon.NewLogger(opts.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	addon.SetLogger(logger)
	defer addon.SetLogger(nil)

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "ls":
		return withManager(opts.cfg, func(mgr rawfile.Manager) error {
			return listCmd(mgr, cmdArgs, out)
		})
	case "cat":
		return withManager(opts.cfg, func(mgr rawfile.Manager) error {
			return catCmd(mgr, cmdArgs, out)
		})
	case "wave":
		if !opts.fromRawfile {
			return waveCmd(nil, opts, cmdArgs, out)
		}
		return withManager(opts.cfg, func(mgr rawfile.Manager) error {
			return waveCmd(mgr, opts, cmdArgs, out)
		})
	case "run":
		return withManager(opts.cfg, func(mgr rawfile.Manager) error {
			return scriptCmd(mgr, opts.cfg, cmdArgs, out)
		})
	default:
		return fmt.Errorf("%w: 未知命令 %s", errUsage, cmd)
	}
}

// withManager 按配置打开资源管理器, 优先使用应用包
func withManager(cfg addon.Config, fn func(rawfile.Manager) error) error {
	var (
		mgr *rawfile.FSManager
		err error
	)
	if cfg.HapPath != "" {
		mgr, err = rawfile.OpenHap(cfg.HapPath, cfg.RawfileRoot)
	} else {
		mgr, err = rawfile.NewDirManager(cfg.RawfileDir)
	}
	if err != nil {
		return err
	}
	defer mgr.Close()

	addon.Logger().Debug("resource manager opened",
		zap.String("hap", cfg.HapPath),
		zap.String("dir", cfg.RawfileDir))
	return fn(mgr)
}

func listCmd(mgr rawfile.Manager, args []string, out io.Writer) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	files, err := rawfile.ListFiles(mgr, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}

func catCmd(mgr rawfile.Manager, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: cat 需要一个文件名", errUsage)
	}
	data, err := rawfile.ReadFile(mgr, args[0])
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func waveCmd(mgr rawfile.Manager, opts *options, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: wave 需要一个文件名", errUsage)
	}

	var (
		w   *wave.Wave
		err error
	)
	switch {
	case opts.resample > 0:
		var data []byte
		if mgr != nil {
			data, err = rawfile.ReadFile(mgr, args[0])
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		w, err = wave.Resample(data, opts.resample)
	case mgr != nil:
		w, err = wave.ReadWaveFrom(mgr, args[0])
	default:
		w, err = wave.ReadWave(args[0])
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "sample_rate: %d\n", w.SampleRate)
	fmt.Fprintf(out, "num_samples: %d\n", len(w.Samples))
	fmt.Fprintf(out, "duration: %s\n", w.Duration())

	if opts.output != "" {
		return wave.WriteWave(opts.output, w)
	}
	return nil
}

func scriptCmd(mgr rawfile.Manager, cfg addon.Config, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: run 需要一个脚本文件", errUsage)
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("读取脚本失败: %w", err)
	}

	vm := goja.New()
	if _, err := binding.Install(vm, binding.WithExternalBuffer(cfg.ExternalBuffer)); err != nil {
		return err
	}
	_ = vm.Set("mgr", binding.NewResourceManager(vm, mgr))
	_ = vm.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return goja.Undefined()
	})

	if _, err := vm.RunScript(args[0], string(src)); err != nil {
		return fmt.Errorf("执行脚本失败: %w", err)
	}
	return nil
}
