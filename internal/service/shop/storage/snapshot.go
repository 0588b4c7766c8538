// Package storage 업스트림에서 받아온 데이터의 파일 스냅샷 저장소를 제공합니다.
//
// 카테고리 트리처럼 업스트림 장애 시에도 서비스가 직전 데이터를 계속 제공해야
// 하는 자료를 JSON 파일로 보존하고, 서버 재시작 시 복원할 수 있게 합니다.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/pkg/concurrency"
)

// defaultSnapshotDirectory 스냅샷 파일을 저장할 기본 디렉토리 이름입니다.
const defaultSnapshotDirectory = "snapshots"

// tempFilePattern 임시 파일 저장 시 사용되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "snapshot-*.tmp"

// SnapshotStore 이름 기반의 JSON 스냅샷 저장소입니다.
//
// [파일 구조]
//   - {kebab-case-name}.json: 스냅샷이 JSON 형식으로 저장됩니다.
//   - snapshot-*.tmp: 파일 저장 중 생성되는 임시 파일입니다.
type SnapshotStore struct {
	baseDir string

	// locks 동일한 스냅샷에 대한 동시 쓰기를 방지하기 위한 파일별 뮤텍스입니다.
	locks *concurrency.KeyedMutex[string]
}

// ErrSnapshotNotFound 요청된 스냅샷 파일이 존재하지 않을 때 반환됩니다.
var ErrSnapshotNotFound = apperrors.New(apperrors.NotFound, "요청된 스냅샷이 존재하지 않습니다.")

// NewSnapshotStore 파일 시스템 기반의 스냅샷 저장소를 생성합니다.
// dir이 빈 문자열이면 기본 디렉토리("snapshots")를 사용하며,
// 초기화 시점에 디렉토리 생성 및 접근 권한을 미리 확인합니다.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		dir = defaultSnapshotDirectory
	}

	// 상대 경로를 절대 경로로 변환하여 경로 일관성을 보장합니다.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "스냅샷 디렉토리의 절대 경로 변환에 실패했습니다.")
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "스냅샷 디렉토리 생성에 실패했습니다.")
	}

	return &SnapshotStore{
		baseDir: absDir,

		locks: concurrency.NewKeyedMutex[string](),
	}, nil
}

// Load 저장된 스냅샷을 읽어 지정된 값(v)으로 역직렬화합니다.
// 스냅샷이 존재하지 않으면 ErrSnapshotNotFound를 반환합니다.
func (s *SnapshotStore) Load(name string, v any) error {
	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// 쓰기 작업과의 경합을 방지하기 위해 읽기에도 Lock을 적용합니다.
	var data []byte
	err = s.locks.WithLock(filename, func() error {
		var readErr error
		data, readErr = os.ReadFile(filename)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				return ErrSnapshotNotFound
			}
			return apperrors.Wrap(readErr, apperrors.System, "스냅샷 파일 읽기에 실패했습니다.")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Lock 보유 시간을 최소화하기 위해 역직렬화는 Lock 외부에서 수행합니다.
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, "스냅샷 데이터의 JSON 변환이 실패하였습니다.")
	}

	return nil
}

// Save 지정된 값을 스냅샷으로 저장합니다.
//
// 저장 중 시스템 장애가 발생해도 기존 스냅샷이 손상되지 않도록
// "임시 파일 쓰기 → 동기화 → 원자적 이름 변경" 전략을 사용합니다.
func (s *SnapshotStore) Save(name string, v any) error {
	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// 직렬화는 Lock 획득 전 수행합니다.
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "스냅샷 데이터의 JSON 직렬화에 실패했습니다.")
	}

	return s.locks.WithLock(filename, func() error {
		return s.writeAtomic(filename, data)
	})
}

// resolveSafePath 스냅샷 이름으로부터 검증된 파일 경로를 생성합니다.
// 생성된 경로가 기본 디렉토리를 벗어나는 경우(Path Traversal) 에러를 반환합니다.
func (s *SnapshotStore) resolveSafePath(name string) (string, error) {
	if name == "" {
		return "", apperrors.New(apperrors.InvalidInput, "스냅샷 이름은 빈 문자열일 수 없습니다.")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", apperrors.New(apperrors.InvalidInput, "스냅샷 이름에 허용되지 않는 경로가 포함되어 있습니다.")
	}

	filename := strcase.ToKebab(name) + ".json"

	cleanPath := filepath.Clean(filepath.Join(s.baseDir, filename))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.System, "스냅샷 파일 경로 계산에 실패했습니다.")
	}
	if strings.HasPrefix(rel, "..") {
		return "", apperrors.New(apperrors.InvalidInput, "스냅샷 이름에 허용되지 않는 경로가 포함되어 있습니다.")
	}

	return cleanPath, nil
}

// writeAtomic 데이터를 파일에 원자적으로 저장합니다.
func (s *SnapshotStore) writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	// 같은 디렉토리 내에 생성해야 rename이 원자적으로 동작합니다.
	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "스냅샷 임시 파일 생성에 실패했습니다.")
	}
	tmpPath := tmpFile.Name()

	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.System, "스냅샷 임시 파일 쓰기에 실패했습니다.")
	}

	// 전원 차단 시 데이터 유실을 막기 위해 물리적 디스크에 강제 기록합니다.
	if err := tmpFile.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "스냅샷 임시 파일 동기화에 실패했습니다.")
	}

	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "스냅샷 임시 파일 닫기에 실패했습니다.")
	}

	if err := os.Rename(tmpPath, filename); err != nil {
		return apperrors.Wrap(err, apperrors.System, "스냅샷 파일 이름 변경에 실패했습니다.")
	}

	return nil
}
