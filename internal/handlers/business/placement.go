package business

import (
	"errors"
	"fmt"

	"stakecontrol/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	PositionLeft  = "left"
	PositionRight = "right"

	// SponsorChainDepth 推荐链奖金走访的最大层数
	SponsorChainDepth = 9

	// maxWalkDepth hard bound for arbitrary tree walks, guards malformed data
	maxWalkDepth = 10000
)

var ErrCycleDetected = errors.New("genealogy cycle detected")

// Placement 安置结果，根节点两个字段都为 nil
type Placement struct {
	ParentID *uint
	Position *string
}

// SubtreeSideForCount 根据 (伞下人数 - 2) 的奇偶决定进入左区还是右区
func SubtreeSideForCount(downlineCount int64) string {
	if (downlineCount-2)%2 == 0 {
		return PositionLeft
	}
	return PositionRight
}

// childAt 查询某个槽位上的子节点，没有时返回 nil
func childAt(db *gorm.DB, parentID uint, position string) (*models.PlacementEdge, error) {
	var edge models.PlacementEdge
	err := db.Where("parent_id = ? AND position = ?", parentID, position).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// countDownline 统计某节点二叉树伞下的总人数（不含自身），带环路保护
func countDownline(db *gorm.DB, rootID uint) (int64, error) {
	visited := map[uint]bool{rootID: true}
	frontier := []uint{rootID}
	var total int64

	for len(frontier) > 0 {
		var children []models.PlacementEdge
		if err := db.Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
			return 0, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			if visited[child.UserID] {
				return 0, ErrCycleDetected
			}
			visited[child.UserID] = true
			frontier = append(frontier, child.UserID)
			total++
			if total > maxWalkDepth {
				return 0, fmt.Errorf("downline of user %d exceeds walk bound", rootID)
			}
		}
	}
	return total, nil
}

// DownlineCount 对外暴露的伞下人数查询
func DownlineCount(db *gorm.DB, userID uint) (int64, error) {
	return countDownline(db, userID)
}

// descendSpine 沿着单侧脊柱向下，找到第一个空的同侧槽位
func descendSpine(db *gorm.DB, startID uint, position string) (uint, error) {
	current := startID
	visited := map[uint]bool{current: true}

	for depth := 0; depth < maxWalkDepth; depth++ {
		child, err := childAt(db, current, position)
		if err != nil {
			return 0, err
		}
		if child == nil {
			return current, nil
		}
		if visited[child.UserID] {
			return 0, ErrCycleDetected
		}
		visited[child.UserID] = true
		current = child.UserID
	}
	return 0, fmt.Errorf("spine descent from user %d exceeds walk bound", startID)
}

// FindPlacement 为新用户寻找安置槽位。
// 算法：先占推荐人自己的左/右槽位；都满时按 (伞下人数-2) 奇偶性选左右子树，
// 然后沿该子树的同侧脊柱下行到第一个空槽。任何数据异常都回退为根节点安置，
// 注册流程不因树损坏而阻塞。
func FindPlacement(db *gorm.DB, sponsorID uint) Placement {
	placement, err := searchPlacement(db, sponsorID)
	if err != nil {
		logrus.Warnf("placement search under sponsor %d failed, falling back to root: %v", sponsorID, err)
		return Placement{}
	}
	return placement
}

func searchPlacement(db *gorm.DB, sponsorID uint) (Placement, error) {
	left, err := childAt(db, sponsorID, PositionLeft)
	if err != nil {
		return Placement{}, err
	}
	if left == nil {
		pos := PositionLeft
		return Placement{ParentID: &sponsorID, Position: &pos}, nil
	}

	right, err := childAt(db, sponsorID, PositionRight)
	if err != nil {
		return Placement{}, err
	}
	if right == nil {
		pos := PositionRight
		return Placement{ParentID: &sponsorID, Position: &pos}, nil
	}

	count, err := countDownline(db, sponsorID)
	if err != nil {
		return Placement{}, err
	}

	side := SubtreeSideForCount(count)
	subtreeRoot := left.UserID
	if side == PositionRight {
		subtreeRoot = right.UserID
	}

	parent, err := descendSpine(db, subtreeRoot, side)
	if err != nil {
		return Placement{}, err
	}
	pos := side
	return Placement{ParentID: &parent, Position: &pos}, nil
}

// FindFallbackPlacement 推荐人无法解析时的全树兜底搜索：
// 从现有根节点开始广度优先，找到第一个可用槽位。树为空时返回根安置。
func FindFallbackPlacement(db *gorm.DB) (Placement, error) {
	var roots []models.PlacementEdge
	if err := db.Where("parent_id IS NULL").Order("id asc").Find(&roots).Error; err != nil {
		return Placement{}, err
	}
	if len(roots) == 0 {
		return Placement{}, nil
	}

	visited := map[uint]bool{}
	frontier := make([]uint, 0, len(roots))
	for _, root := range roots {
		visited[root.UserID] = true
		frontier = append(frontier, root.UserID)
	}

	for len(frontier) > 0 {
		next := make([]uint, 0)
		for _, nodeID := range frontier {
			for _, pos := range []string{PositionLeft, PositionRight} {
				child, err := childAt(db, nodeID, pos)
				if err != nil {
					return Placement{}, err
				}
				if child == nil {
					p := pos
					n := nodeID
					return Placement{ParentID: &n, Position: &p}, nil
				}
				if visited[child.UserID] {
					return Placement{}, ErrCycleDetected
				}
				visited[child.UserID] = true
				next = append(next, child.UserID)
			}
		}
		frontier = next
	}
	return Placement{}, errors.New("fallback placement search exhausted the tree")
}

// SponsorChain 沿推荐关系向上走访，最多 maxDepth 层，环路即止
func SponsorChain(db *gorm.DB, userID uint, maxDepth int) ([]uint, error) {
	chain := make([]uint, 0, maxDepth)
	visited := map[uint]bool{userID: true}
	current := userID

	for len(chain) < maxDepth {
		var edge models.PlacementEdge
		err := db.Where("user_id = ?", current).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if edge.SponsorID == nil {
			break
		}
		sponsor := *edge.SponsorID
		if visited[sponsor] {
			logrus.Warnf("sponsor chain cycle at user %d (origin %d), aborting walk", sponsor, userID)
			break
		}
		visited[sponsor] = true
		chain = append(chain, sponsor)
		current = sponsor
	}
	return chain, nil
}

// BinaryAncestor 二叉树向上走访的一步：祖先与子节点所在的边
type BinaryAncestor struct {
	AncestorID uint
	ChildSide  string
}

// BinaryUpline 沿安置树向上走访到根，返回每一级祖先以及来路方向，环路即止
func BinaryUpline(db *gorm.DB, userID uint) ([]BinaryAncestor, error) {
	uplines := make([]BinaryAncestor, 0)
	visited := map[uint]bool{userID: true}
	current := userID

	for depth := 0; depth < maxWalkDepth; depth++ {
		var edge models.PlacementEdge
		err := db.Where("user_id = ?", current).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if edge.ParentID == nil || edge.Position == nil {
			break
		}
		parent := *edge.ParentID
		if visited[parent] {
			logrus.Warnf("binary tree cycle at user %d (origin %d), aborting walk", parent, userID)
			break
		}
		visited[parent] = true
		uplines = append(uplines, BinaryAncestor{AncestorID: parent, ChildSide: *edge.Position})
		current = parent
	}
	return uplines, nil
}
