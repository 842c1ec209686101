package types

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy 元素定位策略
type Strategy string

const (
	ByID      Strategy = "id"
	ByTagName Strategy = "tag"
	ByXPath   Strategy = "xpath"
	ByCSS     Strategy = "css"
)

var ErrUnknownStrategy = errors.New("未知的定位策略")

// Locator 定位策略和选择器,指向页面上的一个逻辑元素
type Locator struct {
	By    Strategy `json:"by" yaml:"by"`
	Value string   `json:"value" yaml:"value"`
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

func (l Locator) IsZero() bool {
	return l.Value == ""
}

func (l Locator) Validate() error {
	switch l.By {
	case ByID, ByTagName, ByXPath, ByCSS:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, l.By)
	}
	if strings.TrimSpace(l.Value) == "" {
		return fmt.Errorf("定位策略 %s 的选择器为空", l.By)
	}
	return nil
}

// CSS 返回CSS形式的选择器,XPath定位器没有CSS形式,返回false
func (l Locator) CSS() (string, bool) {
	switch l.By {
	case ByID:
		if strings.HasPrefix(l.Value, "#") {
			return l.Value, true
		}
		return "#" + l.Value, true
	case ByTagName, ByCSS:
		return l.Value, true
	default:
		return "", false
	}
}

// NamedLocator 带名称的定位器,用于登录后需要关闭的浮层组件
type NamedLocator struct {
	Name    string `json:"name" yaml:"name"`
	Locator `yaml:",inline"`
}

// LocatorTable 目标站点各逻辑角色到定位器的映射,与站点当前的页面结构绑定
type LocatorTable struct {
	LoginInput     Locator        `json:"login_input" yaml:"login_input"`
	LoginAccept    Locator        `json:"login_accept" yaml:"login_accept"`
	PasswordInput  Locator        `json:"password_input" yaml:"password_input"`
	PasswordAccept Locator        `json:"password_accept" yaml:"password_accept"`
	ChatBody       Locator        `json:"chat_body" yaml:"chat_body"`
	Widgets        []NamedLocator `json:"widgets" yaml:"widgets"`
}

func (lt *LocatorTable) Widget(name string) (Locator, bool) {
	for _, w := range lt.Widgets {
		if w.Name == name {
			return w.Locator, true
		}
	}
	return Locator{}, false
}

func (lt *LocatorTable) WidgetNames() []string {
	names := make([]string, 0, len(lt.Widgets))
	for _, w := range lt.Widgets {
		names = append(names, w.Name)
	}
	return names
}

func (lt *LocatorTable) Validate() error {
	roles := []struct {
		name string
		loc  Locator
	}{
		{"login_input", lt.LoginInput},
		{"login_accept", lt.LoginAccept},
		{"password_input", lt.PasswordInput},
		{"password_accept", lt.PasswordAccept},
		{"chat_body", lt.ChatBody},
	}
	var errs []error
	for _, r := range roles {
		if err := r.loc.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("定位器 %s: %w", r.name, err))
		}
	}
	for _, w := range lt.Widgets {
		if w.Name == "" {
			errs = append(errs, errors.New("弹窗定位器缺少名称"))
			continue
		}
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("弹窗 %s: %w", w.Name, err))
		}
	}
	return errors.Join(errs...)
}
