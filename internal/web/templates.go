package web

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Balatro 对局回放</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px;margin-right:8px}
nav a{color:#8b949e;padding:4px 8px;border-radius:4px}
nav a:hover{color:#c9d1d9;background:#21262d;text-decoration:none}
nav a.active{background:#1f6feb;color:#fff}
main{padding:16px;max-width:1100px;margin:0 auto}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:110px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
tr:hover td{background:#161b22}
.badge{display:inline-block;padding:1px 8px;border-radius:10px;font-size:10px;font-weight:600}
.badge.won{background:#238636;color:#fff}
.badge.lost{background:#21262d;color:#8b949e;border:1px solid #30363d}
.badge.live{background:#1f6feb;color:#fff}
.badge.rule{background:#1f6feb22;color:#58a6ff;border:1px solid #1f6feb}
.badge.llm{background:#8b5cf622;color:#a78bfa;border:1px solid #8b5cf6}
.badge.good{background:#23863622;color:#56d364;border:1px solid #238636}
.badge.ok{background:#f59e0b22;color:#f59e0b;border:1px solid #f59e0b}
.badge.bad{background:#f8717122;color:#f87171;border:1px solid #f87171}
.mono{font-family:monospace;font-size:11px;color:#79c0ff}
.dim{color:#8b949e}
.joker-grid{display:flex;gap:10px;flex-wrap:wrap;margin-bottom:16px}
.joker{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:8px;width:130px;text-align:center}
.joker img{width:71px;height:95px;image-rendering:pixelated}
.joker .name{font-size:11px;color:#f0f6fc;margin-top:4px}
.joker .effect{font-size:10px;color:#8b949e;margin-top:2px}
.joker .sticker{font-size:9px;color:#f59e0b}
.toc{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:10px 14px;margin-bottom:16px;display:flex;gap:8px;flex-wrap:wrap}
.toc a{font-size:11px;padding:2px 8px;border:1px solid #30363d;border-radius:4px;color:#8b949e}
.toc a:hover{color:#c9d1d9;background:#21262d;text-decoration:none}
.divider{display:flex;align-items:center;gap:10px;margin:20px 0 10px}
.divider .line{flex:1;height:1px;background:#30363d}
.divider .label{font-size:13px;font-weight:700;color:#f0f6fc;background:#161b22;border:1px solid #30363d;border-radius:4px;padding:2px 10px}
.event{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:10px;overflow:hidden}
.event img{max-width:100%;display:block}
.event .caption{padding:8px 12px;font-size:12px;display:flex;gap:8px;align-items:center;flex-wrap:wrap}
.scorebar-wrap{background:#21262d;border-radius:3px;height:6px;width:120px;display:inline-block;vertical-align:middle}
.scorebar{border-radius:3px;height:6px;display:block}
.scorebar.good{background:#238636}
.scorebar.ok{background:#f59e0b}
.scorebar.bad{background:#f87171}
.lineage{display:flex;gap:8px;align-items:center;flex-wrap:wrap;margin-bottom:16px}
.lineage .node{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:6px 10px;font-size:12px}
.lineage .node.current{border-color:#1f6feb}
.lineage .arrow{color:#8b949e}
pre{white-space:pre-wrap;word-break:break-all;font-family:monospace;font-size:11px;color:#c9d1d9;background:#0d1117;border:1px solid #30363d;border-radius:6px;padding:10px;max-height:400px;overflow-y:auto}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:center;margin-bottom:12px;background:#161b22;padding:8px 12px;border-radius:6px;border:1px solid #30363d}
.filters label{font-size:11px;color:#8b949e}
.filters select{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px;font-size:12px;font-family:inherit}
.filters button{background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer;font-size:12px}
</style>
</head>
<body>
<nav>
<span class="brand">Balatro 对局回放</span>
<a href="/" {{if eq .Tab "games"}}class="active"{{end}}>对局</a>
<a href="/?tab=strategies" {{if eq .Tab "strategies"}}class="active"{{end}}>策略</a>
<a href="/?tab=seeds" {{if eq .Tab "seeds"}}class="active"{{end}}>种子</a>
</nav>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const tmplRunList = `
{{define "content"}}
{{if .Stats}}
<div class="cards">
<div class="card"><div class="val">{{.Stats.TotalRuns}}</div><div class="lbl">对局数</div></div>
<div class="card"><div class="val">{{.Stats.Wins}}</div><div class="lbl">胜场</div></div>
<div class="card"><div class="val">{{.Stats.Losses}}</div><div class="lbl">败场</div></div>
<div class="card"><div class="val">{{if .Stats.HighestAnte}}{{.Stats.HighestAnte}}{{else}}-{{end}}</div><div class="lbl">最高关卡</div></div>
<div class="card"><div class="val">{{if .Stats.HighestScore}}{{.Stats.HighestScore}}{{else}}-{{end}}</div><div class="lbl">最高分</div></div>
</div>
{{end}}
<form class="filters" method="get" action="/">
<label>牌组 <select name="deck"><option value="">全部</option>{{range .Decks}}<option value="{{.}}" {{if eq . $.Filter.Deck}}selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>难度 <select name="stake"><option value="">全部</option>{{range .Stakes}}<option value="{{.}}" {{if eq . $.Filter.Stake}}selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>结果 <select name="won"><option value="">全部</option><option value="true" {{if eq .Filter.Won "true"}}selected{{end}}>胜</option><option value="false" {{if eq .Filter.Won "false"}}selected{{end}}>负</option></select></label>
<label>排序 <select name="sort"><option value="played_at" {{if eq .Filter.Sort "played_at"}}selected{{end}}>时间</option><option value="final_ante" {{if eq .Filter.Sort "final_ante"}}selected{{end}}>关卡</option><option value="final_score" {{if eq .Filter.Sort "final_score"}}selected{{end}}>分数</option></select></label>
<button type="submit">筛选</button>
<span class="dim">共 {{.Total}} 局</span>
</form>
<table>
<tr><th>对局</th><th>结果</th><th>进度</th><th>牌组 / 难度</th><th>种子</th><th>策略</th><th>规则占比</th><th>估分误差</th><th>用时</th><th>花费</th><th>截图</th><th>时间</th></tr>
{{range .Runs}}
<tr>
<td><a href="/runs/{{.RunCode}}" class="mono">{{.RunCode}}</a></td>
<td>{{if eq .Status "running"}}<span class="badge live">运行中</span>{{else if .Won}}<span class="badge won">胜</span>{{else}}<span class="badge lost">负</span>{{end}}</td>
<td>{{.Progress}}</td>
<td>{{.Deck}} / {{.Stake}}</td>
<td>{{if eq .RunProjection.Seed "-"}}<span class="dim">-</span>{{else}}<a href="/seeds/{{.Run.Seed}}" class="mono">{{.RunProjection.Seed}}</a>{{end}}</td>
<td>{{if .StrategyName}}<a href="/strategies/{{.StrategyID}}">{{.StrategyName}}</a>{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{.DecisionRatio}}</td>
<td>{{with .ScoreStats}}{{pct .AvgErr}}% / {{pct .MaxErr}}% <span class="dim">({{.Count}})</span>{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{.Duration}}</td>
<td>{{.Cost}}</td>
<td>{{.ScreenshotCount}}</td>
<td class="dim">{{fmtTime .PlayedAt}}</td>
</tr>
{{end}}
</table>
{{end}}`

const tmplStrategyList = `
{{define "content"}}
<h1>策略</h1>
<table>
<tr><th>名称</th><th>模型</th><th>对局数</th><th>胜率</th><th>平均关卡</th><th>摘要</th><th>创建时间</th></tr>
{{range .Strategies}}
<tr>
<td><a href="/strategies/{{.ID}}">{{.Name}}</a></td>
<td class="dim">{{orDash .Model}}</td>
<td>{{.RunCount}}</td>
<td>{{.WinRate}}</td>
<td>{{if .AvgAnte}}{{printf "%.1f" (deref .AvgAnte)}}{{else}}<span class="dim">-</span>{{end}}</td>
<td class="dim">{{trunc .Summary 60}}</td>
<td class="dim">{{fmtTimeV .CreatedAt}}</td>
</tr>
{{end}}
</table>
{{end}}`

const tmplSeedList = `
{{define "content"}}
<h1>种子</h1>
<table>
<tr><th>种子</th><th>对局数</th><th>策略数</th><th>最佳关卡</th><th>平均关卡</th><th>胜场</th><th>首次游玩</th></tr>
{{range .Seeds}}
<tr>
<td><a href="/seeds/{{.Seed}}" class="mono">{{.Seed}}</a></td>
<td>{{.RunCount}}</td>
<td>{{.StrategyCount}}</td>
<td>{{.BestAnte}}</td>
<td>{{if .AvgAnte}}{{printf "%.1f" (deref .AvgAnte)}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{.Wins}}</td>
<td class="dim">{{fmtTime .FirstPlayed}}</td>
</tr>
{{end}}
</table>
{{end}}`

const tmplRunDetail = `
{{define "content"}}
<h1><span class="mono">{{.Detail.Run.RunCode}}</span>
{{if eq .Detail.Run.Status "running"}}<span class="badge live">运行中</span>{{else if .Detail.Run.Won}}<span class="badge won">胜</span>{{else}}<span class="badge lost">负</span>{{end}}
</h1>
<div class="cards">
<div class="card"><div class="val">{{.Detail.Progress}}</div><div class="lbl">进度</div></div>
<div class="card"><div class="val">{{if .Detail.Run.FinalScore}}{{.Detail.Run.FinalScore}}{{else}}-{{end}}</div><div class="lbl">最高分</div></div>
<div class="card"><div class="val">{{.Detail.Run.Deck}}</div><div class="lbl">牌组</div></div>
<div class="card"><div class="val">{{.Detail.Run.Stake}}</div><div class="lbl">难度</div></div>
<div class="card"><div class="val">{{if eq .Detail.RunProjection.Seed "-"}}-{{else}}<a href="/seeds/{{.Detail.Run.Seed}}" class="mono">{{.Detail.RunProjection.Seed}}</a>{{end}}</div><div class="lbl">种子</div></div>
<div class="card"><div class="val">{{.Detail.DecisionRatio}}</div><div class="lbl">规则决策占比</div></div>
<div class="card"><div class="val">{{.Detail.Duration}}</div><div class="lbl">用时</div></div>
<div class="card"><div class="val">{{.Detail.Cost}}</div><div class="lbl">LLM 花费</div></div>
{{if .Detail.ScoreStats}}<div class="card"><div class="val">{{pct .Detail.ScoreStats.AvgErr}}%</div><div class="lbl">平均估分误差</div></div>{{end}}
</div>
{{if .Detail.Run.StrategyName}}<p class="dim">策略：<a href="/strategies/{{.Detail.Run.StrategyID}}">{{.Detail.Run.StrategyName}}</a>{{if .Detail.Run.LLMModel}} · 模型 {{.Detail.Run.LLMModel}}{{end}}</p>{{end}}
{{if .Detail.Run.Notes}}<p class="dim">{{.Detail.Run.Notes}}</p>{{end}}

{{if .Detail.Jokers}}
<h2>小丑牌</h2>
<div class="joker-grid">
{{range .Detail.Jokers}}
<div class="joker">
{{if .Known}}{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}">{{end}}<div class="name">{{.NameZh}}</div><div class="effect">{{.EffectZh}}</div>{{else}}<div class="name">{{.Name}}</div>{{end}}
{{if .Edition}}<div class="sticker">{{.Edition}}</div>{{end}}
{{if .Eternal}}<div class="sticker">永恒</div>{{end}}
{{if .Perishable}}<div class="sticker">易腐</div>{{end}}
{{if .Rental}}<div class="sticker">租赁</div>{{end}}
</div>
{{end}}
</div>
{{end}}

{{if .Detail.Rounds}}
<h2>回合</h2>
<table>
<tr><th>关卡</th><th>盲注</th><th>Boss</th><th>目标分</th><th>最佳手牌分</th><th>出牌</th><th>弃牌</th><th>金币</th></tr>
{{range .Detail.Rounds}}
<tr>
<td>{{.Ante}}</td>
<td>{{.BlindType}}{{if .Skipped}} <span class="dim">(跳过)</span>{{end}}</td>
<td>{{if .BossName}}{{.BossName}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{if .TargetScore}}{{.TargetScore}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{if .BestHandScore}}{{.BestHandScore}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{if .HandsPlayed}}{{.HandsPlayed}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{if .DiscardsUsed}}{{.DiscardsUsed}}{{else}}<span class="dim">-</span>{{end}}</td>
<td>{{if .MoneyAfter}}${{.MoneyAfter}}{{else}}<span class="dim">-</span>{{end}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Detail.Timeline}}
<h2>时间线</h2>
{{if .Detail.TOC}}
<div class="toc">
{{range .Detail.TOC}}<a href="#{{.AnchorID}}">{{.Label}}</a>{{end}}
</div>
{{end}}
{{range .Detail.Timeline}}
{{if .Boundary}}
<div class="divider" id="{{.AnchorID}}"><div class="line"></div><div class="label">{{.Boundary.Label}}</div><div class="line"></div></div>
{{end}}
<div class="event">
<img src="{{.ImageURL}}" alt="{{.Screenshot.Caption}}" loading="lazy">
<div class="caption">
{{if eq .Source "rule"}}<span class="badge rule">Rule</span>{{else if eq .Source "llm"}}<span class="badge llm">LLM</span>{{end}}
<span>{{.Screenshot.Caption}}</span>
{{with .Score}}
<span class="badge {{.Class}}">估 {{.Estimated}} / 实 {{.Actual}} ({{.Percent}}%)</span>
<span class="scorebar-wrap"><span class="scorebar {{.Class}}" style="width:{{barWidth .Percent}}%"></span></span>
{{end}}
</div>
</div>
{{end}}
{{end}}

{{if .Detail.Tags}}
<h2>标记</h2>
<p>{{range .Detail.Tags}}<span class="badge lost">第{{.Ante}}关 {{.Name}}</span> {{end}}</p>
{{end}}

{{if eq .Detail.Run.Status "running"}}
<script>
(function(){
var proto = location.protocol === "https:" ? "wss:" : "ws:";
var ws = new WebSocket(proto + "//" + location.host + "/ws/runs/{{.Detail.Run.RunCode}}");
ws.onmessage = function(){ location.reload(); };
})();
</script>
{{end}}
{{end}}`

const tmplStrategyDetail = `
{{define "content"}}
<h1>策略：{{.Detail.Strategy.Name}}</h1>
{{if or .Detail.Ancestors .Detail.Children}}
<div class="lineage">
{{range .Detail.Ancestors}}<span class="node"><a href="/strategies/{{.ID}}">{{.Name}}</a></span><span class="arrow">→</span>{{end}}
<span class="node current">{{.Detail.Strategy.Name}}</span>
{{range .Detail.Children}}<span class="arrow">→</span><span class="node"><a href="/strategies/{{.ID}}">{{.Name}}</a></span>{{end}}
</div>
{{end}}
<div class="cards">
<div class="card"><div class="val">{{.Detail.RunCount}}</div><div class="lbl">对局数</div></div>
<div class="card"><div class="val">{{.Detail.Wins}}</div><div class="lbl">胜场</div></div>
<div class="card"><div class="val">{{.Detail.WinRate}}</div><div class="lbl">胜率</div></div>
<div class="card"><div class="val">{{if .Detail.AvgAnte}}{{printf "%.1f" (deref .Detail.AvgAnte)}}{{else}}-{{end}}</div><div class="lbl">平均关卡</div></div>
<div class="card"><div class="val">{{orDash .Detail.Strategy.Model}}</div><div class="lbl">模型</div></div>
<div class="card"><div class="val mono">{{trunc .Detail.Strategy.CodeHash 10}}</div><div class="lbl">代码哈希</div></div>
</div>
{{if .Detail.Strategy.Summary}}<p class="dim">{{.Detail.Strategy.Summary}}</p>{{end}}
{{with jsonPretty .Detail.Strategy.Params}}
<h2>参数</h2>
<pre>{{.}}</pre>
{{end}}
{{if .Detail.Strategy.SourceCode}}
<h2>源码</h2>
<pre>{{.Detail.Strategy.SourceCode}}</pre>
{{end}}
<h2>对局</h2>
{{template "runTable" .Detail.Runs}}
{{end}}`

const tmplSeedDetail = `
{{define "content"}}
<h1>种子 <span class="mono">{{.Detail.Seed}}</span></h1>
<div class="cards">
<div class="card"><div class="val">{{.Detail.RunCount}}</div><div class="lbl">对局数</div></div>
<div class="card"><div class="val">{{.Detail.Wins}}</div><div class="lbl">胜场</div></div>
<div class="card"><div class="val">{{.Detail.WinRate}}</div><div class="lbl">胜率</div></div>
<div class="card"><div class="val">{{.Detail.BestAnte}}</div><div class="lbl">最佳关卡</div></div>
<div class="card"><div class="val">{{if .Detail.AvgAnte}}{{printf "%.1f" (deref .Detail.AvgAnte)}}{{else}}-{{end}}</div><div class="lbl">平均关卡</div></div>
<div class="card"><div class="val">{{len .Detail.Strategies}}</div><div class="lbl">策略数</div></div>
</div>
{{if .Detail.Strategies}}<p class="dim">使用策略：{{range .Detail.Strategies}}<a href="/strategies/{{.ID}}">{{.Name}}</a> {{end}}</p>{{end}}
<h2>对局</h2>
{{template "runTable" .Detail.Runs}}
{{end}}`

// runTable is shared by the strategy and seed pages.
const tmplRunTable = `
{{define "runTable"}}
<table>
<tr><th>对局</th><th>结果</th><th>进度</th><th>牌组 / 难度</th><th>规则占比</th><th>用时</th><th>花费</th><th>时间</th></tr>
{{range .}}
<tr>
<td><a href="/runs/{{.RunCode}}" class="mono">{{.RunCode}}</a></td>
<td>{{if eq .Status "running"}}<span class="badge live">运行中</span>{{else if .Won}}<span class="badge won">胜</span>{{else}}<span class="badge lost">负</span>{{end}}</td>
<td>{{.Progress}}</td>
<td>{{.Deck}} / {{.Stake}}</td>
<td>{{.DecisionRatio}}</td>
<td>{{.Duration}}</td>
<td>{{.Cost}}</td>
<td class="dim">{{fmtTime .PlayedAt}}</td>
</tr>
{{end}}
</table>
{{end}}`
