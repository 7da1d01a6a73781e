// Package unotify 提供宿主会话的消息投递。
//
// 插件通过 ShowMessage 向宿主界面发送提示消息，宿主侧的接收端
// 实现 [Sink] 接口并注册到 [Notifier]，获得一个会话标识。
// 之后日志器用该标识定位投递目标。
//
// 投递路径上有三层保护：
//   - 瞬时故障按固定间隔重试（avast/retry-go）
//   - 连续失败触发熔断，冷却期内直接拒绝，避免拖垮宿主（sony/gobreaker）
//   - 可选的重复抑制：时间窗口内的同会话同内容消息只投递一次
//
// Notifier 实现 ulog.Notifier 接口，可直接作为日志器的投递器：
//
//	n, _ := unotify.New()
//	session, _ := n.Register(mySink)
//	logger, _ := ulog.GetLogger(dir, "weather", ulog.WithNotifier(n))
//	logger.ShowMessage(ctx, string(session), "update available")
package unotify
