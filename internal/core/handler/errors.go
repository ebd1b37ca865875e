package handler

import "errors"

var (
	// ErrAlreadyStarted 处理器已在监听
	ErrAlreadyStarted = errors.New("handler: already started")

	// errTaskEnded 读写任务之一正常结束
	errTaskEnded = errors.New("handler: connection task ended")
)
