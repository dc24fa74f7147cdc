// Package xcron 在 robfig/cron/v3 之上提供进程内定时任务调度。
//
// 每个任务带独立的超时、重试（xretry）与观测（xmetrics），
// panic 转为失败记录而不影响调度器。Stop 会取消任务 ctx，
// 并返回在执行中任务全部结束后 Done 的 ctx：
//
//	s := xcron.New(xcron.WithSeconds())
//	_, err := s.AddFunc("*/5 * * * * *", sync, xcron.WithName("sync"), xcron.WithSkipIfRunning())
//	s.Start()
//	...
//	<-s.Stop().Done()
//
// xserve.Cron 将 Scheduler 作为 xapp 组件托管。
package xcron
