// Package ufile 提供日志路径相关的文件系统辅助函数。
//
// # 功能
//
//   - [EnsureDir] / [EnsureDirWithPerm]: 递归创建文件的父目录，幂等
//   - [SanitizePath]: 路径格式净化（空字节、尾随分隔符、".." 穿越）
//   - [SafeJoin]: 将插件日志文件名安全地拼接到日志目录内
//
// # 安全边界
//
// SanitizePath 只做格式净化，不防护绝对路径穿越；需要目录隔离语义时
// 使用 SafeJoin。本包面向可信环境下的路径构建（日志目录、配置路径），
// 不能替代对抗性环境下的安全文件访问。
package ufile
