package service

import "errors"

// 错误分级：校验失败不落库；未找到不产生部分写入；权限失败在查询路径
// 用布尔表达、在变更路径才作为错误抛出。重复点赞/取消一类冲突统一用
// bool 返回值表达，不算错误。
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
)
