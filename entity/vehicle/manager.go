package vehicle

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shifters-sim/shifters-go/entity"
	"github.com/shifters-sim/shifters-go/utils/config"
	"github.com/shifters-sim/shifters-go/utils/container"
)

// Manager 车辆管理器
// 功能：管理所有参赛车辆，维护活跃车辆集合，
// 退赛与完赛车辆在下一次准备阶段移出活跃集合但保留在ID映射中
type Manager struct {
	ctx entity.IRaceContext

	data map[int32]*Vehicle

	// 仍在比赛中的车辆
	active *container.IncrementalArray[*Vehicle]
}

// NewManager 创建车辆管理器实例
// 功能：根据配置创建全部车辆并建立ID映射
// 参数：ctx-比赛上下文，bases-车辆配置列表
func NewManager(ctx entity.IRaceContext, bases []config.Vehicle) *Manager {
	m := &Manager{ctx: ctx}
	vehicles := lo.Map(bases, func(base config.Vehicle, _ int) *Vehicle {
		return newVehicle(ctx, m, &base)
	})
	m.data = lo.SliceToMap(vehicles, func(v *Vehicle) (int32, *Vehicle) {
		return v.id, v
	})
	if len(m.data) != len(vehicles) {
		log.Fatalf("duplicate vehicle ids in config, please check the data")
	}
	m.active = container.NewIncrementalArray(vehicles)
	return m
}

// Prepare 准备阶段
// 功能：应用延迟移除并将所有车辆的运行时数据写入快照
func (m *Manager) Prepare() {
	m.active.Prepare()
	for _, v := range m.data {
		v.Prepare()
	}
}

// Active 获取仍在比赛中的车辆
func (m *Manager) Active() []*Vehicle {
	return m.active.Data()
}

// All 获取全部车辆（含已完赛与退赛）
func (m *Manager) All() []*Vehicle {
	return lo.Values(m.data)
}

// Len 获取车辆总数
func (m *Manager) Len() int {
	return len(m.data)
}

// Get 按ID查找车辆
func (m *Manager) Get(id int32) (*Vehicle, error) {
	if v, ok := m.data[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vehicle with id %d", id)
}

// GetOrError 按ID查找车辆，不存在时panic
func (m *Manager) GetOrError(id int32) *Vehicle {
	v, err := m.Get(id)
	if err != nil {
		log.Panicf("vehicle manager: %v", err)
	}
	return v
}

// Retire 将车辆移出活跃集合（在下一次Prepare时生效）
// 说明：用于退赛与完赛，车辆仍保留在ID映射中供遥测查询
func (m *Manager) Retire(v *Vehicle) {
	m.active.Remove(v)
}

// Observations 生成全部活跃车辆的只读观测值
func (m *Manager) Observations() []entity.VehicleObservation {
	return lo.Map(m.active.Data(), func(v *Vehicle, _ int) entity.VehicleObservation {
		return v.Observation()
	})
}
