package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// 并发切换同一条边时，重试次数上限
const maxToggleAttempts = 3

// ErrToggleContention 多次重试后仍与并发写入冲突
var ErrToggleContention = errors.New("toggle: concurrent writers kept winning")

// edge 一条二元关系边：按条件删除，或插入新行
type edge struct {
	model interface{}
	query string
	args  []interface{}
	build func() interface{}
}

// toggleEdge 边存在则删除（返回 false），不存在则插入（返回 true）。
// 唯一索引保证同一对 (actor, target) 至多一行；插入撞上唯一索引说明
// 另一个请求刚刚插入，此时整个步骤重新执行。
func toggleEdge(ctx context.Context, db *gorm.DB, e edge) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		var on bool
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Where(e.query, e.args...).Delete(e.model)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				on = false
				return nil
			}
			if err := tx.Create(e.build()).Error; err != nil {
				return err
			}
			on = true
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return false, err
		}
		return on, nil
	}
	return false, ErrToggleContention
}
