package upstream

import (
	"io"
)

// maxDrainBytes 커넥션 재사용을 위해 응답 본문을 비울 때 읽어들이는 최대 크기입니다.
// 이 크기를 초과하는 본문은 커넥션 재사용을 포기하고 그대로 닫습니다.
const maxDrainBytes = 64 * 1024

// drainAndCloseBody 응답 본문을 안전하게 비우고 닫습니다.
// keep-alive 커넥션을 재사용하려면 본문을 끝까지 읽어야 합니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	_ = body.Close()
}
