// Package uconf 提供插件日志器的配置加载与热更新。
//
// 配置来源是 YAML 或 JSON 文件（格式按扩展名识别），也可以从
// 字节数据加载（适合嵌入宿主自身的配置体系）。加载后的 [LoggerConfig]
// 可直接 Build 出日志器：
//
//	cfg, _ := uconf.Load("/etc/plugins/weather.yaml")
//	lc, _ := cfg.Logger()
//	logger, _ := lc.Build()
//
// Watch 监视配置文件变更并自动重载，变更经过防抖合并后
// 以新的 LoggerConfig 回调通知调用方。
package uconf
