package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/browser"

	"github.com/br41nfck/findcomments/internal/filter"
	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/group"
	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/walker"
)

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		port = fs.Int("p", 8080, "port")
		root = fs.String("root", ".", "directory to scan")
		open = fs.Bool("open", false, "open the page in the browser")
	)
	_ = fs.Parse(args)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	})

	http.HandleFunc("/api/scan", func(w http.ResponseWriter, r *http.Request) {
		resp, err := handleScan(*root, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(resp); err != nil {
			log.Printf("encode: %v", err)
		}
	})

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	url := "http://" + addr + "/"
	log.Printf("listening on %s", url)
	if *open {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("open browser: %v", err)
		}
	}
	log.Fatal(http.ListenAndServe(addr, nil))
}

type scanResponse struct {
	Blocks []model.Block     `json:"blocks"`
	Files  int               `json:"files"`
	Errors []model.ScanError `json:"errors"`
}

func handleScan(root string, q map[string][]string) (*scanResponse, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	opts := walker.Options{
		Root:     root,
		Registry: grammar.NewRegistry(),
		MaxDepth: 0,
	}
	if v := get("ext"); v != "" {
		opts.Extensions = splitList(v)
	}
	if v := get("ignore"); v != "" {
		opts.ExcludeNames = splitList(v)
	}
	if v := get("ignore_regex"); v != "" {
		re, err := regexp.Compile(v)
		if err != nil {
			return nil, fmt.Errorf("ignore_regex: %w", err)
		}
		opts.ExcludeRegex = re
	}
	if v := get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("max_depth must be a non-negative integer")
		}
		opts.MaxDepth = n
	}
	if v := get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("workers must be a positive integer")
		}
		opts.Workers = n
	}

	crit := filter.Criteria{}
	if v := get("only"); v != "" {
		kinds, err := filter.ParseKinds(splitList(v))
		if err != nil {
			return nil, err
		}
		crit.Kinds = kinds
	}
	if v := get("contains"); v != "" {
		res, err := filter.Compile([]string{v})
		if err != nil {
			return nil, err
		}
		crit.Contains = res
	}
	if v := get("min_lines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("min_lines must be a non-negative integer")
		}
		crit.MinLines = n
	}
	includeSymbols := get("include_symbols") == "1" || get("include_symbols") == "true"

	res, err := walker.ScanTree(opts)
	if err != nil {
		return nil, err
	}
	model.SortComments(res.Comments)
	blocks := filter.Apply(group.Blocks(res.Comments, includeSymbols), crit)
	if blocks == nil {
		blocks = []model.Block{}
	}
	if res.Errors == nil {
		res.Errors = []model.ScanError{}
	}
	return &scanResponse{Blocks: blocks, Files: len(res.Files), Errors: res.Errors}, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const indexHTML = `<!doctype html>
<html><head><meta charset="utf-8"/><title>findcomments</title>
<style>
body{font:14px/1.45 system-ui, sans-serif; margin:20px;}
table{border-collapse:collapse;width:100%;}
th,td{border:1px solid #ddd;padding:6px 8px;vertical-align:top;}
thead{background:#fafafa;position:sticky;top:0;}
code,pre{font-family:ui-monospace, SFMono-Regular, Menlo, Consolas, monospace}
pre{margin:0;white-space:pre-wrap}
label{margin-right:12px}
input[type=text]{width:200px}
.small{color:#666}
.warning{color:#b00;font-weight:bold}
</style></head><body>
<h2>findcomments</h2>
<form id="f">
<label>ext: <input name="ext" type="text" placeholder=".py,.go"></label>
<label>only:
<select name="only">
	<option value=""></option>
	<option>single</option>
	<option>multi</option>
	<option>triple_slash</option>
	<option>warning</option>
</select></label>
<label>contains: <input name="contains" type="text"></label>
<label>min lines: <input name="min_lines" type="text" size="3"></label>
<label>max depth: <input name="max_depth" type="text" size="3" value="0"></label>
<label><input type="checkbox" name="include_symbols" value="1"> keep markers</label>
<button>Scan</button>
</form>
<p class="small">Same params as the CLI. Example: <code>/api/scan?ext=.py&amp;only=single&amp;contains=todo</code></p>
<div id="out"></div>
<script>
const f=document.getElementById('f'), out=document.getElementById('out');
const esc=(s)=>String(s).replace(/[&<>"']/g, c=>({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;',"'":'&#39;'}[c]));
function render(data){
 let h='<p>'+data.files+' files, '+data.blocks.length+' blocks, '+data.errors.length+' errors</p>';
 h+='<table><thead><tr><th>File</th><th>Lines</th><th>Type</th><th>Text</th></tr></thead><tbody>';
 for(const b of data.blocks){
  const span=b.start_line===b.end_line?b.start_line:b.start_line+'-'+b.end_line;
  const cls=b.type==='warning'?' class="warning"':'';
  h+='<tr><td><code>'+esc(b.file)+'</code></td><td>'+span+'</td><td'+cls+'>'+esc(b.type)+'</td><td><pre>'+esc(b.lines.join('\n'))+'</pre></td></tr>';
 }
 h+='</tbody></table>';
 for(const e of data.errors){
  h+='<p class="warning">'+esc(e.path)+' ('+esc(e.stage)+'): '+esc(e.message)+'</p>';
 }
 return h;
}
f.onsubmit=async (e)=>{
 e.preventDefault();
 out.textContent='scanning...';
 const q=new URLSearchParams(new FormData(f));
 const res=await fetch('/api/scan?'+q.toString());
 if(!res.ok){ out.textContent=await res.text(); return; }
 out.innerHTML=render(await res.json());
};
</script>
</body></html>
`
