// Package urotate 提供日志文件轮转功能。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [NewSizeFile]: 写前大小检查 + 编号备份（plugin.log.1 … plugin.log.N）。
//     达到阈值时在写入前轮转，因此活动文件最多超限一条记录的长度。
//     默认保留 1 代备份，备份被后续轮转覆盖。
//   - [NewLumberjack]: 基于 lumberjack v2 的按大小轮转，支持 gzip 压缩
//     与按天数清理，适合长生命周期服务。
//
// # 轮转语义差异
//
// SizeFile 在每次写入前检查当前文件大小（size >= threshold 即轮转），
// 备份名固定为 "<名称>.<代数>"；lumberjack 在写入后检查，备份名带时间戳。
// 需要可预测的备份文件名（如外部采集器按固定名抓取）时使用 SizeFile。
//
// # 扩展新实现
//
//  1. 创建新文件实现 Rotator 接口
//  2. 定义独立的配置和构造函数
//  3. 不修改 Rotator 接口
package urotate
