// Package addon 将 WAV 读取与应用资源 (rawfile) 访问暴露给脚本运行时
package addon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRawfileRoot 应用包内 rawfile 的默认根目录
const DefaultRawfileRoot = "resources/rawfile"

// Config 定义插件的配置参数
type Config struct {
	// 资源来源, 二选一
	HapPath    string `yaml:"hap_path"`    // 应用包 (.hap, zip 格式) 路径
	RawfileDir string `yaml:"rawfile_dir"` // 本地 rawfile 目录

	// 可选参数
	RawfileRoot    string `yaml:"rawfile_root"`    // (可选) 应用包内 rawfile 根目录
	ExternalBuffer bool   `yaml:"external_buffer"` // (可选) readWave 默认是否共享采样内存
	LogLevel       string `yaml:"log_level"`       // (可选) 日志级别
}

// DefaultConfig 返回一套默认的配置
func DefaultConfig() Config {
	return Config{
		RawfileDir:     "./rawfile",
		RawfileRoot:    DefaultRawfileRoot,
		ExternalBuffer: true,
		LogLevel:       "info",
	}
}

// LoadConfig 从 YAML 文件加载配置，文件不存在时返回默认配置
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if cfg.RawfileRoot == "" {
		cfg.RawfileRoot = DefaultRawfileRoot
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
