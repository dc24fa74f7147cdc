// Package xsampling 提供日志与观测的采样策略。
//
// xserve.AccessLog 用 [ByRequestID] 对成功请求的访问日志做一致性采样，
// 失败请求总会记录。
package xsampling
