// Package ulog 提供按插件隔离的文件日志器。
//
// 每个插件拥有独立的日志文件 <log_path>/<plugin_name>.log，
// 行格式固定为 "<时间戳> [<级别>] <消息>"，时间戳精确到秒。
// 文件达到大小阈值时自动轮转为编号备份（见 urotate 包）。
//
// 设计目标是宿主进程的稳定性：除构造期的目录创建失败外，
// 任何运行期故障（文件写入、格式化、通知投递）都不会传播到调用方，
// 只计数并交给错误回调处理。
//
// 基本用法:
//
//	logger, err := ulog.GetLogger("/var/log/plugins", "weather")
//	if err != nil {
//		return err
//	}
//	logger.Info(ctx, "started with %d providers", 3)
//	logger.Exception(ctx, err, "refresh failed")
//
// GetLogger 经由进程级注册表去重：同一 (目录, 插件名) 组合
// 在整个进程中共享同一个日志器实例。直接构造独立实例用 [New]。
package ulog
